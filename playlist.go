package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
)

func playlistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List the player's playlists",
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

			snap := client.Snapshot()
			if len(snap.Playlists) == 0 {
				fmt.Println("no playlists")
				return nil
			}
			for _, pl := range snap.Playlists {
				marker := " "
				if pl.ID == snap.ActivePlaylist {
					marker = "*"
				}
				fmt.Printf("%s %d: %s (%d tracks)\n", marker, pl.ID, pl.Name, pl.TrackCount)
			}
			return nil
		},
	}
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <playlist-id>",
		Short: "Make a playlist the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid playlist id %q: %w", args[0], err)
			}
			return runCommand(remote.OpenPlaylist{PlaylistID: id})
		},
	}
}

func songCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "song <playlist-id> <index>",
		Short: "Play a song by its position in a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid playlist id %q: %w", args[0], err)
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid song index %q: %w", args[1], err)
			}
			return runCommand(remote.ChangeSong{PlaylistID: id, SongIndex: index})
		},
	}
}
