package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/apimgr/hostscout/src/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		out, err := yaml.Marshal(viper.AllSettings())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", viper.ConfigFileUsed(), out)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		if !isKnownKey(key) {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := loadConfig(); err != nil {
			return err
		}

		viper.Set(key, value)

		configPath := getConfigPath()
		if err := paths.EnsureParent(configPath); err != nil {
			return err
		}
		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !isKnownKey(key) {
			return fmt.Errorf("key not found: %s", key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(key))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := getConfigPath()

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config already exists: %s", configPath)
		}
		if err := paths.EnsureParent(configPath); err != nil {
			return err
		}
		if err := os.WriteFile(configPath, []byte(defaultConfig), 0600); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
		return nil
	},
}

const defaultConfig = `# hostscout configuration
api:
  base_url: https://api.shodan.io
  exploits_url: https://exploits.shodan.io
  timeout: 30
  # http://, https:// or socks5:// proxy
  proxy: ""
  # minimum spacing between requests
  request_interval: 1s

enrich:
  workers: 4

output:
  format: txt
  # auto, always, never
  color: auto

logging:
  # debug, info, warn, error
  level: warn
  # empty = ~/.local/log/apimgr/hostscout/cli.log
  file: ""
  max_size: 10
  max_files: 5

cache:
  # none, memory, redis
  backend: none
  # seconds
  ttl: 300
  redis_url: redis://localhost:6379/0

metrics:
  # Prometheus textfile path, empty disables
  file: ""
`

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configInitCmd)
}

func getConfigPath() string {
	path, err := paths.ResolveConfigPath(cfgFile)
	if err != nil {
		return paths.ConfigFile()
	}
	return path
}

// isKnownKey reports whether key has a registered default
func isKnownKey(key string) bool {
	defaults := viper.New()
	setDefaults(defaults)
	return defaults.IsSet(key)
}
