package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Harvester HarvesterConfig       `mapstructure:"harvester"`
	Fetcher   FetcherConfig         `mapstructure:"fetcher"`
	Sites     map[string]SiteConfig `mapstructure:"sites"`
	Export    ExportConfig          `mapstructure:"export"`
	Cache     CacheConfig           `mapstructure:"cache"`
}

// HarvesterConfig holds the pagination and concurrency budget of one run
type HarvesterConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`    // concurrent paths in flight
	PageSize      int           `mapstructure:"page_size"`      // records per pagination window
	EmptyStreak   int           `mapstructure:"empty_streak"`   // consecutive empty pages ending a path
	OffsetCeiling int           `mapstructure:"offset_ceiling"` // hard stop against endless pagination
	RunDeadline   time.Duration `mapstructure:"run_deadline"`   // 0 means no deadline
}

// FetcherConfig holds retry and pacing settings for single requests
type FetcherConfig struct {
	MaxRetries           int           `mapstructure:"max_retries"`
	BackoffBase          time.Duration `mapstructure:"backoff_base"`
	BackoffMultiplier    float64       `mapstructure:"backoff_multiplier"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`
}

// SiteConfig is one target-site profile
type SiteConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	Discovery        string `mapstructure:"discovery"` // "tree" or "crawl"
	TreeDepth        int    `mapstructure:"tree_depth"`
	CrawlRoot        string `mapstructure:"crawl_root"`
	CategorySelector string `mapstructure:"category_selector"`
	AllowedDomain    string `mapstructure:"allowed_domain"`
}

// ExportConfig selects the sinks a finished harvest is handed to
type ExportConfig struct {
	CSVPath  string         `mapstructure:"csv_path"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds Postgres connection details for the upsert sink
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// CacheConfig holds the optional Redis response cache
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Site resolves one profile by name.
func (c *Config) Site(name string) (SiteConfig, error) {
	site, ok := c.Sites[name]
	if !ok {
		return SiteConfig{}, fmt.Errorf("unknown site profile %q", name)
	}
	if site.BaseURL == "" {
		return SiteConfig{}, fmt.Errorf("site profile %q has no base_url", name)
	}
	return site, nil
}

func setDefaults() {
	viper.SetDefault("harvester.concurrency", 6)
	viper.SetDefault("harvester.page_size", 50)
	viper.SetDefault("harvester.empty_streak", 2)
	viper.SetDefault("harvester.offset_ceiling", 10000)
	viper.SetDefault("harvester.run_deadline", "0s")

	viper.SetDefault("fetcher.max_retries", 4)
	viper.SetDefault("fetcher.backoff_base", "1s")
	viper.SetDefault("fetcher.backoff_multiplier", 1.5)
	viper.SetDefault("fetcher.request_timeout", "30s")
	viper.SetDefault("fetcher.max_requests_per_second", 10)

	viper.SetDefault("export.csv_path", "")
	viper.SetDefault("export.database.enabled", false)
	viper.SetDefault("export.database.host", "localhost")
	viper.SetDefault("export.database.port", 5432)
	viper.SetDefault("export.database.name", "harvester")
	viper.SetDefault("export.database.user", "harvester_user")
	viper.SetDefault("export.database.password", "harvester_pass")

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", 6379)
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.database", 0)
	viper.SetDefault("cache.ttl", "1h")
}
