package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the player is doing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := connect(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer client.Stop() //nolint:errcheck // best-effort teardown

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := client.WaitFirstSnapshot(ctx); err != nil {
				return err
			}

			printStatus(client.Snapshot())
			return nil
		},
	}
}

func printStatus(snap remote.PlayerState) {
	fmt.Printf("Player:  %s", snap.State)
	if snap.ServerVersion != "" {
		fmt.Printf(" (%s)", snap.ServerVersion)
	}
	fmt.Println()
	fmt.Printf("Volume:  %d%%\n", snap.Volume)

	if track := snap.Track; track != nil {
		fmt.Println()
		fmt.Printf("Track:   %s\n", track.Title)
		if track.Artist != "" {
			fmt.Printf("Artist:  %s\n", track.Artist)
		}
		if track.Album != "" {
			album := track.Album
			if track.Year > 0 {
				album = fmt.Sprintf("%s (%d)", album, track.Year)
			}
			fmt.Printf("Album:   %s\n", album)
		}
		pos := time.Duration(snap.Position) * time.Second
		fmt.Printf("At:      %s / %s\n", formatDuration(pos), formatDuration(track.Length))
		if track.FileSize > 0 {
			fmt.Printf("Size:    %s\n", humanize.Bytes(uint64(track.FileSize)))
		}
		if track.PlayCount > 0 {
			fmt.Printf("Plays:   %d\n", track.PlayCount)
		}
	}

	if len(snap.Playlists) > 0 {
		fmt.Println()
		fmt.Println("Playlists:")
		for _, pl := range snap.Playlists {
			marker := " "
			if pl.ID == snap.ActivePlaylist {
				marker = "*"
			}
			fmt.Printf("  %s %d: %s (%d tracks)\n", marker, pl.ID, pl.Name, pl.TrackCount)
		}
	}
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
