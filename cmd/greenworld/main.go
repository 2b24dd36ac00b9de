// Command greenworld runs the garden simulation server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/green-world/internal/api"
	"github.com/talgya/green-world/internal/audio"
	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
	"github.com/talgya/green-world/internal/game"
	"github.com/talgya/green-world/internal/persistence"
)

var rootCmd = &cobra.Command{
	Use:   "greenworld",
	Short: "Garden simulation engine with an HTTP API",
	Long: `Runs the day-by-day garden simulation: seed sellers, weather, growth,
breeding and missions, exposed over an HTTP API with a websocket stream.

Configuration is read from flags, GREENWORLD_* environment variables, or
an optional config file given with --config.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().Int("port", 8080, "HTTP listen port")
	rootCmd.Flags().String("db", "data/greenworld.db", "Path to the SQLite save database")
	rootCmd.Flags().Int64("seed", 0, "Deterministic random seed (0 means time-based)")
	rootCmd.Flags().String("catalog", "", "Optional YAML catalog overlay")
	rootCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("config", "", "Config file path")

	viper.SetEnvPrefix("GREENWORLD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, args []string) error {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	setupLogging(viper.GetString("log-level"))

	c := catalog.Default()
	if overlay := viper.GetString("catalog"); overlay != "" {
		var err error
		c, err = catalog.Load(overlay)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		slog.Info("catalog overlay loaded", "path", overlay)
	}

	dbPath := viper.GetString("db")
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	var rng entropy.Source
	if seed := viper.GetInt64("seed"); seed != 0 {
		rng = entropy.NewSeeded(seed)
		slog.Info("seeded random source", "seed", seed)
	} else {
		rng = entropy.NewSystem()
	}

	session := game.NewSession(c, rng, audio.LogSink{})
	session.OnTutorialDone = func() {
		if err := db.SetTutorialCompleted(); err != nil {
			slog.Warn("could not record tutorial completion", "error", err)
		}
	}

	// Resume a saved game when one exists, otherwise start fresh. New
	// players get the tutorial on their first game only.
	if bundle, ok, err := db.LoadBundle(persistence.DefaultSlot, c); err != nil {
		return fmt.Errorf("load save: %w", err)
	} else if ok {
		session.Restore(bundle)
		slog.Info("game restored", "day", bundle.GameState.Day, "phase", session.Phase())
	} else {
		session.StartNew(!db.TutorialCompleted())
		slog.Info("new game started", "tutorial", session.Tutorial().Active)
	}

	server := api.NewServer(session, db, viper.GetInt("port"))
	server.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down, saving game")
	if session.State() != nil {
		if err := db.SaveBundle(persistence.DefaultSlot, session.Bundle()); err != nil {
			slog.Error("save on shutdown failed", "error", err)
		}
	}
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
