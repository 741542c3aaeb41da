package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/apimgr/hostscout/src/cache"
	"github.com/apimgr/hostscout/src/credential"
	"github.com/apimgr/hostscout/src/pipeline"
	"github.com/apimgr/hostscout/src/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [query...]",
	Short: "Launch interactive TUI mode",
	Long: `Launch an interactive search screen. Search flags (filters, sort,
--exploit) apply to every query typed.`,
	// The alternate screen owns the terminal; logs only go to the file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd.ErrOrStderr(), false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		opts, _, err := buildOptions(joinArgs(args))
		if err != nil {
			return err
		}

		key, err := credential.Resolve(credential.DefaultStore(), cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client, release, err := newAPIClient(ctx, key)
		if err != nil {
			return err
		}
		defer release()

		// Repeated queries within a session are served from memory
		if client.Cache == nil {
			client.Cache = cache.NewMemoryCache(100, 0)
			client.CacheTTL = 0
		}

		runner := &pipeline.Runner{Remote: client, Logger: logger}
		return tui.Run(ctx, runner, opts)
	},
}

func init() {
	addSearchFlags(tuiCmd)
}
