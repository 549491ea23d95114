package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	PriceFeed PriceFeedConfig `mapstructure:"pricefeed"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	QuoteRefresh string `mapstructure:"quote_refresh"`
	Snapshot     string `mapstructure:"snapshot"`
}

type PriceFeedConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	StreamEnabled bool   `mapstructure:"stream_enabled"`
	StreamURL     string `mapstructure:"stream_url"`

	// MaxQuoteAge bounds how old a cached quote may be before progress and
	// deviation metrics treat it as unavailable.
	MaxQuoteAge time.Duration `mapstructure:"max_quote_age"`
}

type SnapshotConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// SeriesTail is how many trailing series rows each snapshot keeps.
	SeriesTail int `mapstructure:"series_tail"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.quote_refresh", "@every 30s")
	v.SetDefault("cron.snapshot", "@every 1h")
	v.SetDefault("pricefeed.base_url", "http://localhost:5001")
	v.SetDefault("pricefeed.timeout", "5s")
	v.SetDefault("pricefeed.stream_enabled", false)
	v.SetDefault("pricefeed.stream_url", "")
	v.SetDefault("pricefeed.max_quote_age", "5m")
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.series_tail", 10)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
