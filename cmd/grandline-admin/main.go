package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database"
	"github.com/grandline-rpg/grandline/bot/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "grandline-admin",
	Short:        "Operational tooling for the Grand Line RPG bot",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := bot.LoadConfig(configPath)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		reset, _ := cmd.Flags().GetBool("reset")
		if reset {
			// Reverse dependency order so foreign keys never block a drop.
			tables := []string{
				"faction_reputations", "player_allies", "player_quests",
				"ships", "crews", "characters",
			}
			for _, table := range tables {
				if _, err := db.ExecWithLog(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", table)); err != nil {
					return fmt.Errorf("dropping %s: %w", table, err)
				}
			}
			slog.Info("Dropped existing tables")
		}

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}
		slog.Info("Schema is up to date")
		return nil
	},
}

var validateContentCmd = &cobra.Command{
	Use:   "validate-content [dir]",
	Short: "Load and cross-check the game content files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "data/content"
		if len(args) == 1 {
			dir = args[0]
		} else if cfg, err := bot.LoadConfig(configPath); err == nil {
			dir = cfg.Content.Dir
		}

		tables, err := content.Load(dir)
		if err != nil {
			return err
		}
		fmt.Printf("content ok: %d quests, %d allies, %d factions, %d ship types, %d upgrades\n",
			len(tables.Quests()), len(tables.Allies()), len(tables.FactionNames()),
			len(tables.ShipTypeNames()), len(tables.Upgrades()))
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := bot.LoadConfig(configPath)
		if err != nil {
			return err
		}
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			return err
		}
		fmt.Println("database ok")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config file")
	migrateCmd.Flags().Bool("reset", false, "drop every table before recreating the schema")
	rootCmd.AddCommand(migrateCmd, validateContentCmd, pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
