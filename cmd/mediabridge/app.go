package main

import (
	"context"
	"io"

	"github.com/genricoloni/mediabridge/internal/artwork"
	"github.com/genricoloni/mediabridge/internal/config"
	"github.com/genricoloni/mediabridge/internal/coordinator"
	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/genricoloni/mediabridge/internal/ipc"
	"github.com/genricoloni/mediabridge/internal/logging"
	"github.com/genricoloni/mediabridge/internal/mpris"
	"github.com/genricoloni/mediabridge/internal/notify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AppOptions wires the bridge for cfg.
func AppOptions(cfg *config.AppConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			func(c *config.AppConfig) domain.Config { return c },

			// UI channel, both directions
			ipc.NewServer,
			func(s *ipc.Server) domain.EventSource { return s },
			func(s *ipc.Server) domain.CommandSink { return s },

			fx.Annotate(artwork.NewCache, fx.As(new(domain.ArtworkResolver))),
			fx.Annotate(mpris.NewConnector, fx.As(new(domain.ServiceConnector))),

			notify.NewIconCache,
			notify.New,

			coordinator.New,
		),
		fx.Invoke(registerHooks),
	)
}

func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Log(logger)
	return logger, nil
}

// registerHooks starts the UI channel before the coordinator consumes it and
// stops them in reverse order.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	server *ipc.Server,
	coord *coordinator.Coordinator,
	notifier domain.Notifier,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Media bridge starting")
			return server.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			err := server.Stop(ctx)
			if closer, ok := notifier.(io.Closer); ok {
				if cerr := closer.Close(); cerr != nil {
					logger.Warn("Failed to close notification connection", zap.Error(cerr))
				}
			}
			_ = logger.Sync()
			return err
		},
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return coord.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return coord.Stop(ctx)
		},
	})
}
