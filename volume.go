package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/clemote/internal/remote"
)

func volumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "volume <0-100>",
		Short: "Set the player volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid volume %q: %w", args[0], err)
			}
			return runCommand(remote.SetVolume{Level: level})
		},
	}
}
