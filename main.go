package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	disgobot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/commands"
	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine/combat"
	"github.com/grandline-rpg/grandline/bot/handlers"
	"github.com/grandline-rpg/grandline/bot/logger"
	"github.com/grandline-rpg/grandline/bot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := bot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting Grand Line bot",
		slog.String("version", version),
		slog.String("commit", commit))

	tables, err := content.Load(cfg.Content.Dir)
	if err != nil {
		slog.Error("Failed to load game content",
			slog.String("dir", cfg.Content.Dir),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Game content loaded",
		slog.Int("quests", len(tables.Quests())),
		slog.Int("allies", len(tables.Allies())))

	dbStart := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStart)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStart)))

	b := bot.New(*cfg, version, commit)
	b.DB = db
	b.Tables = tables

	characterRepo := repositories.NewCharacterRepository(db.BunDB())
	crewRepo := repositories.NewCrewRepository(db.BunDB())
	shipRepo := repositories.NewShipRepository(db.BunDB())
	questRepo := repositories.NewQuestRepository(db.BunDB())
	allyRepo := repositories.NewAllyRepository(db.BunDB())
	reputationRepo := repositories.NewReputationRepository(db.BunDB())

	locks := services.NewLocks()
	b.ReputationService = services.NewReputationService(reputationRepo, tables, locks)
	b.CharacterService = services.NewCharacterService(characterRepo, questRepo, allyRepo, reputationRepo, tables, locks)
	b.CrewService = services.NewCrewService(crewRepo, shipRepo, characterRepo, tables, locks)
	b.ShipService = services.NewShipService(shipRepo, crewRepo, characterRepo, tables, locks)
	b.QuestService = services.NewQuestService(questRepo, characterRepo, crewRepo, shipRepo, b.ReputationService, tables, locks)
	b.AllyService = services.NewAllyService(allyRepo, characterRepo, b.ReputationService, tables, locks)
	b.CombatService = services.NewCombatService(
		combat.NewManager(rand.NewSource(time.Now().UnixNano())),
		characterRepo, crewRepo, b.AllyService, tables, locks)
	b.SearchService = services.NewSearchService(tables)

	h := handler.New()

	h.Command("/version", commands.VersionHandler(b))

	h.Route("/character", func(r handler.Router) {
		r.Autocomplete("/{subcommand}", commands.CharacterAutocompleteHandler(b))
		r.Command("/create", handlers.WrapWithLogging("character create", commands.CharacterCreateHandler(b)))
		r.Command("/info", handlers.WrapWithLogging("character info", commands.CharacterInfoHandler(b)))
		r.Command("/list", handlers.WrapWithLogging("character list", commands.CharacterListHandler(b)))
		r.Command("/delete", handlers.WrapWithLogging("character delete", commands.CharacterDeleteHandler(b)))
	})

	h.Route("/crew", func(r handler.Router) {
		r.Command("/create", handlers.WrapWithLogging("crew create", commands.CrewCreateHandler(b)))
		r.Command("/info", handlers.WrapWithLogging("crew info", commands.CrewInfoHandler(b)))
		r.Command("/join", handlers.WrapWithLogging("crew join", commands.CrewJoinHandler(b)))
		r.Command("/leave", handlers.WrapWithLogging("crew leave", commands.CrewLeaveHandler(b)))
		r.Command("/role", handlers.WrapWithLogging("crew role", commands.CrewRoleHandler(b)))
		r.Command("/deposit", handlers.WrapWithLogging("crew deposit", commands.CrewDepositHandler(b)))
		r.Command("/withdraw", handlers.WrapWithLogging("crew withdraw", commands.CrewWithdrawHandler(b)))
		r.Command("/disband", handlers.WrapWithLogging("crew disband", commands.CrewDisbandHandler(b)))
		r.Command("/leaderboard", handlers.WrapWithLogging("crew leaderboard", commands.CrewLeaderboardHandler(b)))
	})

	h.Route("/ship", func(r handler.Router) {
		r.Autocomplete("/{subcommand}", commands.ShipAutocompleteHandler(b))
		r.Command("/info", handlers.WrapWithLogging("ship info", commands.ShipInfoHandler(b)))
		r.Command("/buy", handlers.WrapWithLogging("ship buy", commands.ShipBuyHandler(b)))
		r.Command("/upgrade", handlers.WrapWithLogging("ship upgrade", commands.ShipUpgradeHandler(b)))
		r.Command("/repair", handlers.WrapWithLogging("ship repair", commands.ShipRepairHandler(b)))
		r.Command("/load", handlers.WrapWithLogging("ship load", commands.ShipLoadHandler(b)))
		r.Command("/unload", handlers.WrapWithLogging("ship unload", commands.ShipUnloadHandler(b)))
	})

	h.Route("/quest", func(r handler.Router) {
		r.Autocomplete("/{subcommand}", commands.QuestAutocompleteHandler(b))
		r.Command("/available", handlers.WrapWithLogging("quest available", commands.QuestAvailableHandler(b)))
		r.Command("/start", handlers.WrapWithLogging("quest start", commands.QuestStartHandler(b)))
		r.Command("/active", handlers.WrapWithLogging("quest active", commands.QuestActiveHandler(b)))
		r.Command("/advance", handlers.WrapWithLogging("quest advance", commands.QuestAdvanceHandler(b)))
		r.Command("/choose", handlers.WrapWithLogging("quest choose", commands.QuestChooseHandler(b)))
		r.Command("/abandon", handlers.WrapWithLogging("quest abandon", commands.QuestAbandonHandler(b)))
	})

	h.Route("/ally", func(r handler.Router) {
		r.Autocomplete("/{subcommand}", commands.AllyAutocompleteHandler(b))
		r.Command("/recruitable", handlers.WrapWithLogging("ally recruitable", commands.AllyRecruitableHandler(b)))
		r.Command("/recruit", handlers.WrapWithLogging("ally recruit", commands.AllyRecruitHandler(b)))
		r.Command("/roster", handlers.WrapWithLogging("ally roster", commands.AllyRosterHandler(b)))
		r.Command("/train", handlers.WrapWithLogging("ally train", commands.AllyTrainHandler(b)))
		r.Command("/bond", handlers.WrapWithLogging("ally bond", commands.AllyBondHandler(b)))
	})

	h.Route("/reputation", func(r handler.Router) {
		r.Command("/view", handlers.WrapWithLogging("reputation view", commands.ReputationViewHandler(b)))
		r.Command("/benefits", handlers.WrapWithLogging("reputation benefits", commands.ReputationBenefitsHandler(b)))
	})

	h.Command("/explore", handlers.WrapWithLogging("explore", commands.ExploreHandler(b)))
	h.Command("/challenge", handlers.WrapWithLogging("challenge", commands.ChallengeHandler(b)))

	h.Component("/battle/{action}/{owner}", handlers.WrapComponentWithLogging("battle", commands.BattleComponentHandler(b)))
	h.Component("/duel/{verdict}/{challenger}/{challenged}/{issued}", handlers.WrapComponentWithLogging("duel", commands.DuelComponentHandler(b)))

	if err = b.SetupBot(h, disgobot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
