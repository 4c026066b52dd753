package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rocktalk-be/internal/model"
	"rocktalk-be/internal/server"
	"rocktalk-be/internal/tracer"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		shutdownTracer := tracer.InitTracer(a.cfg.Otel)
		defer shutdownTracer(context.Background())

		if err := a.container.Start(ctx); err != nil {
			return err
		}

		srv := server.New(a.cfg, a.container)
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown()
		}()
		return srv.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%d tables, %s)\n", len(model.All()), a.cfg.Database.Driver)
		return nil
	},
}
