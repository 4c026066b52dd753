// Package commands implements the rocktalk command line.
package commands

import (
	"context"
	"fmt"
	"os"

	"rocktalk-be/internal/bootstrap"
	"rocktalk-be/internal/config"
	"rocktalk-be/internal/model"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/pkg/database"

	"github.com/spf13/cobra"
)

var (
	includePrivateFlag bool
	Version            = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "rocktalk",
	Short: "Chat backend and local session tooling",
	Long: `rocktalk serves the chat API and manages the local session store.

Examples:
  rocktalk serve                         Start the HTTP server
  rocktalk sessions list                 List recent sessions
  rocktalk sessions show <id>            Render a transcript
  rocktalk search "go generics" /title   Search sessions
  rocktalk export <id> -f markdown       Export a session
  rocktalk import chats.json             Import sessions`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&includePrivateFlag, "include-private", "p", false, "Include private sessions")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(logsCmd)
}

// app is the wiring shared by the offline commands.
type app struct {
	cfg       *config.Config
	container *bootstrap.Container
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	db, err := database.Open(database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.Connection,
		Silent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	container, err := bootstrap.NewContainer(db, cfg, bootstrap.Options{
		Logger: logger.NewFileLogger(cfg.App.LogFilePath),
	})
	if err != nil {
		return nil, err
	}
	if err := container.TemplateService.Seed(ctx); err != nil {
		container.Close()
		return nil, err
	}

	return &app{cfg: cfg, container: container}, nil
}

func (a *app) Close() {
	a.container.Close()
}
