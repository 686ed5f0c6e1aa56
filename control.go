package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/clemote/internal/remote"
)

const commandTimeout = 5 * time.Second

// runCommand connects, waits for the session, sends one command and
// disconnects.
func runCommand(command remote.Command) error {
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

	if err := client.WaitConnected(ctx); err != nil {
		return err
	}
	return client.Send(command)
}

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.Play{})
		},
	}
}

func pauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.Pause{})
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.Stop{})
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle between play and pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.PlayPause{})
		},
	}
}

func nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Skip to the next track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.Next{})
		},
	}
}

func prevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Go back to the previous track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(remote.Previous{})
		},
	}
}
