package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/clemote/internal/scrobble"
	"github.com/llehouerou/clemote/internal/state"
)

func lastfmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastfm",
		Short: "Manage the Last.fm link used for scrobbling",
	}
	cmd.AddCommand(lastfmLinkCmd(), lastfmUnlinkCmd(), lastfmStatusCmd())
	return cmd
}

func lastfmLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Link a Last.fm account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasLastfmConfig() {
				return errors.New("lastfm api_key and api_secret must be set in the config file")
			}

			client := scrobble.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)

			token, err := client.GetToken()
			if err != nil {
				return err
			}

			fmt.Println("Authorize clemote in your browser:")
			fmt.Println()
			fmt.Printf("  %s\n", client.GetAuthURL(token))
			fmt.Println()
			fmt.Print("Press Enter once done... ")
			_, _ = bufio.NewReader(os.Stdin).ReadString('\n') //nolint:errcheck // any input works

			username, sessionKey, err := client.GetSession(token)
			if err != nil {
				return err
			}

			store, err := state.Open()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // best-effort teardown

			if err := store.SaveLastfmSession(username, sessionKey); err != nil {
				return err
			}

			fmt.Printf("Linked as %s\n", username)
			return nil
		},
	}
}

func lastfmUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Remove the stored Last.fm session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := state.Open()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // best-effort teardown

			if err := store.DeleteLastfmSession(); err != nil {
				return err
			}
			fmt.Println("Unlinked")
			return nil
		},
	}
}

func lastfmStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the Last.fm link state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := state.Open()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // best-effort teardown

			session, err := store.GetLastfmSession()
			if err != nil {
				return err
			}
			if session == nil {
				fmt.Println("Not linked")
				return nil
			}

			fmt.Printf("Linked as %s since %s\n", session.Username, session.LinkedAt.Format("2006-01-02"))

			pending, err := store.GetPendingScrobbles()
			if err != nil {
				return err
			}
			if len(pending) > 0 {
				fmt.Printf("%d scrobbles waiting for retry\n", len(pending))
			}
			return nil
		},
	}
}
