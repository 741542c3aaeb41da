// Package cmd implements the hostscout command line
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/hostscout/src/api"
	"github.com/apimgr/hostscout/src/cache"
	"github.com/apimgr/hostscout/src/logging"
	"github.com/apimgr/hostscout/src/paths"
)

var (
	// Build info - set via -ldflags at build time
	ProjectName = "hostscout"
	Version     = "dev"
	CommitID    = "unknown"
	BuildDate   = "unknown"

	// Persistent flags
	cfgFile      string
	outputFormat string
	verbose      bool
	timeout      int

	logger    = slog.New(slog.DiscardHandler)
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   getBinaryName() + " <query...>",
	Short: "Search Shodan and enrich the matching hosts",
	Long: `hostscout runs a Shodan host search, filters and sorts the matches
locally, looks up host details (and optionally known exploits) for each
one, and prints or saves the result.

Examples:
  ` + getBinaryName() + ` apache --country DE -n 5
  ` + getBinaryName() + ` "port:22 openssh" --ip-range 10-80 --since 2024-01-01 -s last_update
  ` + getBinaryName() + ` nginx -e -o csv -w hosts.csv`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd.ErrOrStderr(), verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	defer closeLogging()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/apimgr/hostscout/cli.yml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: txt, json, csv (default txt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress and lookup failures to stderr")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "request timeout in seconds")

	addSearchFlags(rootCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(tuiCmd)
}

// setDefaults registers every config key and its default
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.exploits_url", api.DefaultExploitsURL)
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.proxy", "")
	v.SetDefault("api.request_interval", "1s")
	v.SetDefault("enrich.workers", 4)
	v.SetDefault("output.format", "txt")
	v.SetDefault("output.color", "auto")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_files", 5)
	v.SetDefault("cache.backend", cache.BackendNone)
	v.SetDefault("cache.ttl", 300)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("metrics.file", "")
}

func initConfig() {
	configPath, err := paths.ResolveConfigPath(cfgFile)
	if err != nil {
		configPath = paths.ConfigFile()
	}
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("HOSTSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	// A missing file just means defaults
	viper.ReadInConfig()
}

// loadConfig reads the config file strictly; used where a broken file
// must fail the command
func loadConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := viper.ReadInConfig(); err != nil {
		return configError(path, err)
	}
	return nil
}

// initLogging installs the run logger. mirror copies info and above to
// stderr as text.
func initLogging(stderr io.Writer, mirror bool) error {
	closeLogging()

	l, closer, err := logging.New(logging.Config{
		Level:    viper.GetString("logging.level"),
		File:     viper.GetString("logging.file"),
		MaxSize:  viper.GetInt("logging.max_size"),
		MaxFiles: viper.GetInt("logging.max_files"),
		Verbose:  mirror,
		Stderr:   stderr,
	})
	if err != nil {
		// Logging is never fatal
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		return nil
	}
	logger = l
	logCloser = closer
	return nil
}

func closeLogging() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// newAPIClient builds the provider client from config and key. The
// returned func releases the response cache.
func newAPIClient(ctx context.Context, key string) (*api.Client, func(), error) {
	timeoutVal := viper.GetInt("api.timeout")
	if timeout > 0 {
		timeoutVal = timeout
	}
	if timeoutVal == 0 {
		timeoutVal = 30
	}

	api.ProjectName = ProjectName
	api.Version = Version

	client := api.NewClient(viper.GetString("api.base_url"), key, timeoutVal)
	if u := viper.GetString("api.exploits_url"); u != "" {
		client.ExploitsURL = strings.TrimRight(u, "/")
	}
	client.Interval = viper.GetDuration("api.request_interval")

	if err := client.SetProxy(viper.GetString("api.proxy")); err != nil {
		return nil, nil, configError(viper.ConfigFileUsed(), err)
	}

	cfg := cache.DefaultConfig()
	cfg.Backend = viper.GetString("cache.backend")
	cfg.TTL = time.Duration(viper.GetInt("cache.ttl")) * time.Second
	cfg.RedisURL = viper.GetString("cache.redis_url")

	c, err := cache.New(ctx, cfg)
	if err != nil {
		return nil, nil, configError(viper.ConfigFileUsed(), err)
	}
	release := func() {}
	if c != nil {
		client.Cache = c
		client.CacheTTL = cfg.TTL
		release = func() { c.Close() }
		logger.Debug("search cache enabled", "backend", cfg.Backend, "ttl", cfg.TTL)
	}

	return client, release, nil
}

func getBinaryName() string {
	return filepath.Base(os.Args[0])
}

func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output.format")
}
