package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete causelist configuration
type Config struct {
	Timezone     string             `yaml:"timezone" mapstructure:"timezone"`
	Structured   StructuredConfig   `yaml:"structured" mapstructure:"structured"`
	Rendered     RenderedConfig     `yaml:"rendered" mapstructure:"rendered"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	History      HistoryConfig      `yaml:"history" mapstructure:"history"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StructuredConfig configures the cause-list API
type StructuredConfig struct {
	Endpoint     string        `yaml:"endpoint" mapstructure:"endpoint"`
	StateCode    string        `yaml:"state_code" mapstructure:"state_code"`
	DistrictCode string        `yaml:"district_code" mapstructure:"district_code"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	APIKey       string        `yaml:"-" mapstructure:"api_key"` // Read from ECOURTS_API_KEY, never written to disk
}

// RenderedConfig configures the operator-assisted path
type RenderedConfig struct {
	URL        string `yaml:"url" mapstructure:"url"`                 // Cause-list page presented to the operator
	CaptureDir string `yaml:"capture_dir" mapstructure:"capture_dir"` // Where the operator saves the rendered page
	Headless   bool   `yaml:"headless" mapstructure:"headless"`       // Fetch the page directly, no operator
}

// HTTPConfig configures page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RateLimitingConfig configures per-host request rates
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig configures the structured payload cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig configures the result sink
type OutputConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// HistoryConfig configures the SQLite check history
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Asia/Kolkata",
		Structured: StructuredConfig{
			Endpoint:     "https://apis.ecourts.gov.in/eciapi/17/district-court/cause-list",
			StateCode:    "09",
			DistrictCode: "13",
			Timeout:      30 * time.Second,
		},
		Rendered: RenderedConfig{
			URL:        "https://newdelhi.dcourts.gov.in/cause-list-%E2%81%84-daily-board/",
			CaptureDir: ".",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "causelist/0.1 (+https://github.com/ppiankov/causelist)",
			MaxBodyBytes:  10_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultDataDir("cache"),
			MemoryTTL: time.Hour,
			DiskTTL:   12 * time.Hour,
		},
		Output: OutputConfig{
			Path: "ecourts_result.json",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    defaultDataDir("history.db"),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// defaultDataDir places name under ~/.causelist, or the working directory
// when the home directory is unknown
func defaultDataDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".causelist", name)
	}
	return filepath.Join(home, ".causelist", name)
}
