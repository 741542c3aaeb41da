package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apimgr/hostscout/src/credential"
	"github.com/apimgr/hostscout/src/model"
)

var loginKey string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save and verify a Shodan API key",
	Long: `Save a Shodan API key to the config directory and verify it.

The key is stored at ~/.config/apimgr/hostscout/api_key.json (mode 0600).
HOSTSCOUT_API_KEY overrides the stored key.

Examples:
  ` + getBinaryName() + ` login
  ` + getBinaryName() + ` login --key ABCDEF...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := credential.DefaultStore().Remove()
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved API key found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginKey, "key", "k", "", "API key (prompted when omitted)")
}

func runLogin(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	key := loginKey
	if key == "" {
		var err error
		key, err = credential.Prompt(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client, release, err := newAPIClient(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	info, err := client.Info(ctx)
	if errors.Is(err, model.ErrUnauthorized) {
		return fmt.Errorf("key rejected, not saved: %w", err)
	}

	store := credential.DefaultStore()
	if saveErr := store.Save(key); saveErr != nil {
		return saveErr
	}
	fmt.Fprintf(out, "API key saved to %s\n", store.Path)

	if err != nil {
		fmt.Fprintf(out, "Warning: could not verify key: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Key verified (plan: %s, query credits: %d)\n", info.Plan, info.QueryCredits)
	return nil
}
