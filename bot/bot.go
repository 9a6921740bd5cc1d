package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database"
	"github.com/grandline-rpg/grandline/bot/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

// Bot carries everything command handlers need: the content tables, the
// database, and the domain services built on top of both.
type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB     *database.DB
	Tables *content.Tables

	CharacterService  *services.CharacterService
	CrewService       *services.CrewService
	ShipService       *services.ShipService
	QuestService      *services.QuestService
	AllyService       *services.AllyService
	ReputationService *services.ReputationService
	CombatService     *services.CombatService
	SearchService     *services.SearchService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Grand Line bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithPlayingActivity("on the Grand Line"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
