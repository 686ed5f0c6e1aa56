package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/config"
	"github.com/llehouerou/clemote/internal/logging"
	"github.com/llehouerou/clemote/internal/remote"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// Connection flags, overriding the config file when set.
var (
	flagHost     string
	flagPort     int
	flagAuthCode int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clemote",
		Short: "Remote control for a Clementine player over the network",
		Long: `Clemote talks to a running Clementine player over its network
remote protocol. It can drive playback, watch what is playing,
scrobble plays to Last.fm, and expose the player on the desktop
via MPRIS.

Connection settings come from ~/.config/clemote/config.toml or
./config.toml, and can be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flagHost, "host", "H", "", "player host")
	rootCmd.PersistentFlags().IntVarP(&flagPort, "port", "p", 0, "player remote port")
	rootCmd.PersistentFlags().IntVarP(&flagAuthCode, "auth", "a", 0, "auth code shown by the player")

	rootCmd.AddCommand(
		statusCmd(),
		listenCmd(),
		playCmd(),
		pauseCmd(),
		stopCmd(),
		toggleCmd(),
		nextCmd(),
		prevCmd(),
		volumeCmd(),
		playlistsCmd(),
		openCmd(),
		songCmd(),
		lastfmCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clemote %s (%s)\n", version, commit)
		},
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagAuthCode != 0 {
		cfg.AuthCode = flagAuthCode
	}
	return cfg, nil
}

func remoteConfig(cfg *config.Config, reconnect bool) remote.Config {
	return remote.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		AuthCode:       cfg.AuthCode,
		Reconnect:      reconnect,
		ReconnectDelay: time.Duration(cfg.ReconnectDelay) * time.Second,
	}
}

// connect starts a one-shot client (no reconnection) for a CLI command.
// The caller must Stop it.
func connect(cfg *config.Config, log *zap.Logger) (*remote.Client, error) {
	client := remote.New(remoteConfig(cfg, false), log)
	if err := client.Start(); err != nil {
		return nil, err
	}
	return client, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logging.New(logging.Config{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
}
