package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Probe reachability first so a down database fails fast with a clear
	// error instead of a pool timeout.
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all required tables and indexes.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureUTF8Encoding(ctx); err != nil {
		return fmt.Errorf("failed to ensure UTF-8 encoding: %w", err)
	}

	tables := []interface{}{
		(*models.Character)(nil),
		(*models.Crew)(nil),
		(*models.Ship)(nil),
		(*models.PlayerQuest)(nil),
		(*models.PlayerAlly)(nil),
		(*models.FactionReputation)(nil),
	}

	for _, model := range tables {
		query := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists()

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_characters_user_id ON characters(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_characters_crew_id ON characters(crew_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_characters_user_name ON characters(user_id, name);",
		"CREATE INDEX IF NOT EXISTS idx_crews_captain_id ON crews(captain_id);",
		"CREATE INDEX IF NOT EXISTS idx_ships_crew_id ON ships(crew_id);",
		"CREATE INDEX IF NOT EXISTS idx_player_quests_character_id ON player_quests(character_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_player_quests_active ON player_quests(character_id, quest_id) WHERE status = 'active';",
		"CREATE INDEX IF NOT EXISTS idx_player_allies_character_id ON player_allies(character_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_player_allies_character_ally ON player_allies(character_id, ally_id);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_faction_reputations_character_faction ON faction_reputations(character_id, faction);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Ping verifies both database connections are working.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) ensureUTF8Encoding(ctx context.Context) error {
	var encoding string
	err := db.pool.QueryRow(ctx, "SHOW server_encoding;").Scan(&encoding)
	if err != nil {
		return fmt.Errorf("failed to check database encoding: %w", err)
	}

	if encoding != "UTF8" {
		slog.Warn("Database is not using UTF-8 encoding, this may cause character encoding issues",
			"current_encoding", encoding,
			"recommended", "UTF8")
	}

	if _, err := db.pool.Exec(ctx, "SET client_encoding TO 'UTF8';"); err != nil {
		return fmt.Errorf("failed to set client encoding to UTF-8: %w", err)
	}
	return nil
}
