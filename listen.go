package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print player events as they happen",
		Long: `Listen connects to the player and prints every state change
until interrupted. The connection is re-established if the
player goes away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := remote.New(remoteConfig(cfg, true), zap.NewNop())
			if err := client.Start(); err != nil {
				return err
			}
			defer client.Stop() //nolint:errcheck // best-effort teardown

			sub := client.Subscribe()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-sig:
					return nil
				case <-sub.Done:
					return client.LastErr()
				case ev := <-sub.ConnChanged:
					if ev.Err != nil {
						fmt.Printf("conn      %s -> %s (%v)\n", ev.Previous, ev.Current, ev.Err)
					} else {
						fmt.Printf("conn      %s -> %s\n", ev.Previous, ev.Current)
					}
				case ev := <-sub.TrackChanged:
					if ev.Current == nil {
						fmt.Println("track     (none)")
						continue
					}
					fmt.Printf("track     %s - %s\n", ev.Current.Artist, ev.Current.Title)
				case ev := <-sub.StateChanged:
					fmt.Printf("state     %s\n", ev.Current)
				case ev := <-sub.PositionChanged:
					fmt.Printf("position  %s\n", formatDuration(time.Duration(ev.Seconds)*time.Second))
				case ev := <-sub.VolumeChanged:
					fmt.Printf("volume    %d%%\n", ev.Level)
				case ev := <-sub.PlaylistsChanged:
					fmt.Printf("playlists %d\n", len(ev.Playlists))
				}
			}
		},
	}
}
