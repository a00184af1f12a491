package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/causelist/internal/model"
)

// version is set at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "causelist",
	Short: "Check whether a case is listed on a court's daily cause list",
	Long: `causelist looks up a case on a district court's cause list for a date
and reports its serial number and hearing court.

The case is identified either by CNR or by case type, number and year.
With --api the eCourts cause-list API is tried first (ECOURTS_API_KEY);
otherwise, or when the API does not list the case, the cause-list page is
opened for you to pass the CAPTCHA and save.

The result is written as JSON (default ecourts_result.json).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "causelist v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.causelist/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and CAUSELIST_* variables
func initConfig() {
	// .env may hold ECOURTS_API_KEY; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := configDir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setupEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setupEnv maps CAUSELIST_SECTION_KEY variables onto section.key and the
// API key onto ECOURTS_API_KEY
func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix("CAUSELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("structured.api_key", "ECOURTS_API_KEY", "CAUSELIST_STRUCTURED_API_KEY")
}

// loadConfig layers file, environment and bound flags over the defaults
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	setDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables are seen by
// Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("timezone", cfg.Timezone)

	v.SetDefault("structured.endpoint", cfg.Structured.Endpoint)
	v.SetDefault("structured.state_code", cfg.Structured.StateCode)
	v.SetDefault("structured.district_code", cfg.Structured.DistrictCode)
	v.SetDefault("structured.timeout", cfg.Structured.Timeout)
	v.SetDefault("structured.api_key", "")

	v.SetDefault("rendered.url", cfg.Rendered.URL)
	v.SetDefault("rendered.capture_dir", cfg.Rendered.CaptureDir)
	v.SetDefault("rendered.headless", cfg.Rendered.Headless)

	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.insecure_tls", cfg.HTTP.InsecureTLS)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", cfg.HTTP.NoProxy)
	v.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.verbose", cfg.Output.Verbose)

	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// configDir returns ~/.causelist
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "find home directory")
	}
	return filepath.Join(home, ".causelist"), nil
}
