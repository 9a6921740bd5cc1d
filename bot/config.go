package bot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/grandline-rpg/grandline/bot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "data/content"
	}
	if cfg.Web.Host == "" {
		cfg.Web.Host = "localhost"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db"`
	Content ContentConfig     `toml:"content"`
	Web     WebConfig         `toml:"web"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type ContentConfig struct {
	Dir string `toml:"dir"`
}

// WebConfig is the bind address for the read-only REST API.
type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}
