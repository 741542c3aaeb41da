package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/apimgr/hostscout/src/credential"
	"github.com/apimgr/hostscout/src/model"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show API plan and remaining credits",
	Long: `Show the plan and remaining query/scan credits of the configured key.

Examples:
  ` + getBinaryName() + ` info
  ` + getBinaryName() + ` info --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd)
	},
}

func runInfo(cmd *cobra.Command) error {
	if err := loadConfig(); err != nil {
		return err
	}

	key, source, err := credential.DefaultStore().Load()
	if err != nil {
		if errors.Is(err, model.ErrMissingAPIKey) {
			return fmt.Errorf("%w: run '%s login' first", err, getBinaryName())
		}
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client, release, err := newAPIClient(ctx, key)
	if err != nil {
		return err
	}
	defer release()

	info, err := client.Info(ctx)
	if err != nil {
		return fmt.Errorf("info failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if getOutputFormat() == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Plan:\t%s\n", info.Plan)
	fmt.Fprintf(w, "Query credits:\t%d / %d\n", info.QueryCredits, info.UsageLimits.QueryCredits)
	fmt.Fprintf(w, "Scan credits:\t%d / %d\n", info.ScanCredits, info.UsageLimits.ScanCredits)
	fmt.Fprintf(w, "Monitored IPs:\t%d\n", info.MonitoredIPs)
	fmt.Fprintf(w, "Key source:\t%s\n", source)
	return w.Flush()
}
