package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/mpris"
	"github.com/llehouerou/clemote/internal/remote"
	"github.com/llehouerou/clemote/internal/scrobble"
	"github.com/llehouerou/clemote/internal/state"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stay connected and run the scrobbler and MPRIS bridge",
		Long: `Serve keeps a connection to the player open, reconnecting when it
drops. While running it scrobbles plays to Last.fm (if linked) and
exposes the player on the desktop via MPRIS (if enabled).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			defer log.Sync() //nolint:errcheck // stderr sync may fail, harmless

			client := remote.New(remoteConfig(cfg, true), log)
			if err := client.Start(); err != nil {
				return err
			}
			defer client.Stop() //nolint:errcheck // best-effort teardown

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if cfg.HasLastfmConfig() {
				if err := startScrobbler(ctx, cfg.Lastfm.APIKey, cfg.Lastfm.APISecret, client, log); err != nil {
					log.Warn("scrobbling disabled", zap.Error(err))
				}
			}

			if cfg.Mpris.Enabled {
				adapter, err := mpris.New(client)
				if err != nil {
					log.Warn("mpris bridge disabled", zap.Error(err))
				} else {
					defer adapter.Close() //nolint:errcheck // best-effort teardown
					log.Info("mpris bridge started")
				}
			}

			log.Info("connected supervisor running",
				zap.String("host", cfg.Host),
				zap.Int("port", cfg.Port))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			log.Info("shutting down")
			return nil
		},
	}
}

// startScrobbler wires the Last.fm scrobbler to the client's event
// stream. It fails when no account is linked.
func startScrobbler(ctx context.Context, apiKey, apiSecret string, client *remote.Client, log *zap.Logger) error {
	store, err := state.Open()
	if err != nil {
		return err
	}

	session, err := store.GetLastfmSession()
	if err != nil {
		store.Close()
		return err
	}
	if session == nil {
		store.Close()
		return scrobble.ErrNotAuthenticated
	}

	lfm := scrobble.New(apiKey, apiSecret)
	lfm.SetSessionKey(session.SessionKey)

	scrobbler := scrobble.NewScrobbler(lfm, store, log)
	go func() {
		defer store.Close()
		scrobbler.Run(ctx, client.Subscribe())
	}()

	log.Info("scrobbling as", zap.String("user", session.Username))
	return nil
}
