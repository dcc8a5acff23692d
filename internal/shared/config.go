package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// Config is read from built-in defaults, then the TOML file named by
// CONFIG_FILE (if any), then environment variables.
type Config struct {
	AppEnv      string `toml:"app_env"`
	HTTPAddr    string `toml:"http_addr"`
	MetricsAddr string `toml:"metrics_addr"`

	FeedSource     string `toml:"feed_source"` // http|file|mysql
	FeedURL        string `toml:"feed_url"`
	FeedPath       string `toml:"feed_path"`
	FeedRPS        int    `toml:"feed_rps"`
	FeedRetries    int    `toml:"feed_retries"`
	FeedTimeoutSec int    `toml:"feed_timeout_seconds"`
	FeedTZ         string `toml:"feed_tz"` // zone feed dates are read in, "" = local

	MySQLDSN string `toml:"mysql_dsn"`

	RedisAddr   string `toml:"redis_addr"` // "" disables the snapshot cache
	RedisPass   string `toml:"redis_password"`
	RedisDB     int    `toml:"redis_db"`
	CacheTTLSec int    `toml:"cache_ttl_seconds"`

	RefreshCron string `toml:"refresh_cron"` // "" disables scheduled refresh
}

func Defaults() Config {
	return Config{
		AppEnv:         "prod",
		HTTPAddr:       ":8080",
		MetricsAddr:    "",
		FeedSource:     "file",
		FeedPath:       "tours.json",
		FeedRPS:        5,
		FeedRetries:    0,
		FeedTimeoutSec: 20,
		MySQLDSN:       "root:root@tcp(localhost:3306)/tours?parseTime=true&charset=utf8mb4&loc=UTC",
		CacheTTLSec:    900,
	}
}

// Load never fails: an unreadable CONFIG_FILE is logged and skipped.
func Load() Config {
	c, err := LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Warn().Err(err).Msg("config file ignored")
		c = Defaults()
		applyEnv(&c)
	}
	return c
}

// LoadFile is Load with an explicit TOML path; "" means defaults and env only.
func LoadFile(path string) (Config, error) {
	c := Defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyEnv(c *Config) {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.FeedSource = env("FEED_SOURCE", c.FeedSource)
	c.FeedURL = env("FEED_URL", c.FeedURL)
	c.FeedPath = env("FEED_PATH", c.FeedPath)
	c.FeedRPS = atoi("FEED_RPS", c.FeedRPS)
	c.FeedRetries = atoi("FEED_RETRIES", c.FeedRetries)
	c.FeedTimeoutSec = atoi("FEED_TIMEOUT_SECONDS", c.FeedTimeoutSec)
	c.FeedTZ = env("FEED_TZ", c.FeedTZ)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)
	c.CacheTTLSec = atoi("CACHE_TTL_SECONDS", c.CacheTTLSec)
	c.RefreshCron = env("REFRESH_CRON", c.RefreshCron)
}

func (c Config) Validate() error {
	switch c.FeedSource {
	case "http":
		if c.FeedURL == "" {
			return fmt.Errorf("FEED_URL is required for feed source %q", c.FeedSource)
		}
	case "file":
		if c.FeedPath == "" {
			return fmt.Errorf("FEED_PATH is required for feed source %q", c.FeedSource)
		}
	case "mysql":
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for feed source %q", c.FeedSource)
		}
	default:
		return fmt.Errorf("unknown feed source %q (want http, file or mysql)", c.FeedSource)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSec) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Location resolves FeedTZ; "" is the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.FeedTZ == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.FeedTZ)
	if err != nil {
		return nil, fmt.Errorf("FEED_TZ: %w", err)
	}
	return loc, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
