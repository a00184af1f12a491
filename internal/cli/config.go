package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/causelist/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage causelist configuration",
	Long: `Manage causelist configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CAUSELIST_*, ECOURTS_API_KEY, also read from .env)
3. Config file (~/.causelist/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after defaults, config file, environment and flags. The API key is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
		} else {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}
		return writeConfigShow(cmd.OutOrStdout(), cfg)
	},
}

// writeConfigShow prints cfg as YAML followed by the credential status
func writeConfigShow(w io.Writer, cfg *model.Config) error {
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "marshal config")
	}

	_, _ = fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintln(w, "  Current Configuration")
	_, _ = fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, string(yamlData))
	_, _ = fmt.Fprintln(w)

	keyStatus := "not set"
	if cfg.Structured.APIKey != "" {
		keyStatus = "set (redacted)"
	}
	_, _ = fmt.Fprintf(w, "ECOURTS_API_KEY: %s\n", keyStatus)
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.causelist/config.yaml (or --config) with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			dir, err := configDir()
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			configPath = filepath.Join(dir, "config.yaml")
		}

		if err := writeDefaultConfig(configPath); err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "✓ Created default configuration: %s\n", configPath)
		_, _ = fmt.Fprintf(out, "\nTo view the configuration:\n")
		_, _ = fmt.Fprintf(out, "  causelist config show\n")
		_, _ = fmt.Fprintf(out, "\nTo customize, edit the file with your preferred editor:\n")
		_, _ = fmt.Fprintf(out, "  $EDITOR %s\n\n", configPath)
		return nil
	},
}

// writeDefaultConfig writes the defaults to path, refusing to overwrite
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return eris.Errorf("config file already exists: %s\nUse 'causelist config show' to view it, or delete it first to recreate", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create config directory")
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return eris.Wrap(err, "marshal config")
	}

	header := `# causelist configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (CAUSELIST_SECTION_KEY, e.g. CAUSELIST_STRUCTURED_STATE_CODE)
#   3. This config file
#   4. Built-in defaults
#
# The API key is never stored here. Set it in the environment or a .env file:
#   ECOURTS_API_KEY=...

`
	data := append([]byte(header), yamlData...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return eris.Wrap(err, "write config")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
