// Package app composes the client application with fx: config,
// logging, the data source, the stores and the TUI shell.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/client"
	"github.com/mvolkoff/beseda/internal/config"
	"github.com/mvolkoff/beseda/internal/logging"
	"github.com/mvolkoff/beseda/internal/profile"
	"github.com/mvolkoff/beseda/internal/store"
	"github.com/mvolkoff/beseda/internal/tui"
)

// Params holds the resolved command-line configuration.
type Params struct {
	Profile string
	// Offline runs against the seeded fixture database instead of a
	// server.
	Offline bool
	// ServerURL overrides the configured server address when set.
	ServerURL string
}

// Module returns the fx module for the TUI client.
func Module(p Params) fx.Option {
	return fx.Module("beseda",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideSource,
			provideClient,
			provideTUI,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) *config.Config {
	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		cfg = config.Default()
	}
	if p.ServerURL != "" {
		cfg.ServerURL = p.ServerURL
	}
	return cfg
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideSource(p Params, cfg *config.Config, logger *zap.Logger) (adapter.Source, error) {
	if p.Offline {
		db, err := store.Open(profile.FixtureDBPath(p.Profile))
		if err != nil {
			return nil, err
		}
		res, err := db.Migrate()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("offline fixture ready",
			zap.String("path", profile.FixtureDBPath(p.Profile)),
			zap.Uint("schema_version", res.Version))
		return adapter.NewLocal(db), nil
	}
	logger.Info("using remote server", zap.String("url", cfg.ServerURL))
	return adapter.NewHTTP(cfg.ServerURL, logger)
}

func provideClient(cfg *config.Config, source adapter.Source, b *bus.Bus, logger *zap.Logger) *client.Client {
	return client.New(cfg.UserID, source, b, logger)
}

func provideTUI(p Params, c *client.Client, cfg *config.Config, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(c, cfg, profile.ConfigPath(), p.Profile, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui exited with error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			app.Stop()
			logger.Info("client stopped")
			return nil
		},
	})
}
