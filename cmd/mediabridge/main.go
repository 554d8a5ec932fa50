package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genricoloni/mediabridge/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const stopTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o config.Overrides

	root := &cobra.Command{
		Use:           "mediabridge",
		Short:         "Expose a UI player as an MPRIS media player on the session bus",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o)
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.ConfigFile, "config", "", "path to config.toml")
	flags.StringVar(&o.EnvFile, "env-file", "", "path to a .env file (default ./.env if present)")
	flags.StringVar(&o.ListenAddr, "listen", "", "UI channel address (host:port)")
	flags.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error")

	root.Flags().StringVar(&o.CacheDir, "cache-dir", "", "artwork cache directory")
	root.Flags().StringVar(&o.LogFile, "log-file", "", "also write logs to this rotating file")
	root.Flags().BoolVar(&o.NoNotifications, "no-notifications", false, "disable track-change notifications")

	root.AddCommand(newSendCmd(&o))
	return root
}

// runDaemon starts the application and blocks until SIGINT or SIGTERM.
func runDaemon(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}

	app := fx.New(
		AppOptions(cfg),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	return app.Stop(stopCtx)
}
