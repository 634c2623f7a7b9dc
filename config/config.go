package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Source   SourceConfig   `mapstructure:"source"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type SourceConfig struct {
	Mode     string `mapstructure:"mode"` // file | remote
	Dir      string `mapstructure:"dir"`  // file mode: root of the Desc/ and State/ exports
	BaseURL  string `mapstructure:"base_url"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type FeedConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	URL         string        `mapstructure:"url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Queries     []string      `mapstructure:"queries"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

type StorageConfig struct {
	Dir string `mapstructure:"dir"` // root of the Inventory/ change logs
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"` // 0 disables the reload ticker
}

// ArchiveConfig mirrors change events into a relational table for ad
// hoc querying. The JSONL change log stays canonical; the archive is
// off unless enabled here.
type ArchiveConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Mode          string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath    string        `mapstructure:"sqlite_path"`
	MySQLDSN      string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen  int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle  int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife  time.Duration `mapstructure:"mysql_max_life"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	// AdminWhitelist restricts the admin endpoints to these IPs/CIDRs.
	// An empty slice allows any source address.
	AdminWhitelist []string `mapstructure:"admin_whitelist"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("source.mode", "file")
	v.SetDefault("source.dir", "./storage")
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.queries", []string{"SELECT * FROM InventoryState"})
	v.SetDefault("feed.backoff_base", "1m")
	v.SetDefault("feed.max_attempts", 30)
	v.SetDefault("storage.dir", "./storage")
	v.SetDefault("refresh.interval", "10m")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.mode", "sqlite")
	v.SetDefault("archive.sqlite_path", "./data/archive.db")
	v.SetDefault("archive.mysql_max_open", 50)
	v.SetDefault("archive.mysql_max_idle", 10)
	v.SetDefault("archive.mysql_max_life", "1h")
	v.SetDefault("archive.batch_size", 100)
	v.SetDefault("archive.flush_interval", "5s")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
