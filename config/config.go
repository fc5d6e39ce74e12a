package config

import (
	"os"
	"strconv"
	"time"

	"tnu/pricetracker/pkg/errors"
)

const defaultTimezone = "UTC"

// Config represents the application configuration
type Config struct {
	// Watchlist input
	WatchlistPath string

	// Postgres configuration
	DatabaseDSN string

	// Digest delivery
	MessageChannel string
	MessageTarget  string
	DryRun         bool

	// Redis stream configuration (optional check publishing)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (optional per-product cooldown)
	MemcacheAddr  string
	CheckCooldown time.Duration

	// Browser automation
	OpenClawBin    string
	BrowserTimeout time.Duration

	// Pacing between browser actions
	MinDelay time.Duration
	MaxDelay time.Duration

	// History and digest
	HistoryDays int

	// Day bucketing zone. Fixed at config load so write and read paths
	// never disagree across hosts.
	DayTimezone string
	location    *time.Location

	// Page URL templates, %s receives the product id
	ProductURLTemplate  string
	CrossRefURLTemplate string

	// Offer condition filter on the all-offers view
	OfferCondition string

	// RunInterval of 0 means a single run
	RunInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	if streamCount < 1 {
		// The publisher shards across streamCount streams and needs at
		// least one.
		streamCount = 1
	}
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	cooldown, _ := strconv.Atoi(getEnv("CHECK_COOLDOWN_SECONDS", "0"))
	browserTimeout, _ := strconv.Atoi(getEnv("BROWSER_TIMEOUT_SECONDS", "90"))
	minDelay, _ := strconv.ParseFloat(getEnv("MIN_DELAY_SECONDS", "2"), 64)
	maxDelay, _ := strconv.ParseFloat(getEnv("MAX_DELAY_SECONDS", "6"), 64)
	historyDays, _ := strconv.Atoi(getEnv("HISTORY_DAYS", "5"))
	runInterval, _ := strconv.Atoi(getEnv("RUN_INTERVAL_SECONDS", "0"))

	cfg := Config{
		WatchlistPath:        os.Getenv("WATCHLIST_PATH"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "postgres://localhost:5432/pricetracker"),
		MessageChannel:       getEnv("MESSAGE_CHANNEL", "telegram"),
		MessageTarget:        os.Getenv("MESSAGE_TARGET"),
		DryRun:               getEnv("DIGEST_DRY_RUN", "false") == "true",
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "pricechecks"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		CheckCooldown:        time.Duration(cooldown) * time.Second,
		OpenClawBin:          getEnv("OPENCLAW_BIN", "openclaw"),
		BrowserTimeout:       time.Duration(browserTimeout) * time.Second,
		MinDelay:             time.Duration(minDelay * float64(time.Second)),
		MaxDelay:             time.Duration(maxDelay * float64(time.Second)),
		HistoryDays:          historyDays,
		DayTimezone:          getEnv("DAY_TIMEZONE", defaultTimezone),
		ProductURLTemplate:   getEnv("PRODUCT_URL_TEMPLATE", "https://www.amazon.co.uk/dp/%s"),
		CrossRefURLTemplate:  getEnv("CROSSREF_URL_TEMPLATE", "https://uk.camelcamelcamel.com/product/%s"),
		OfferCondition:       getEnv("OFFER_CONDITION", "New"),
		RunInterval:          time.Duration(runInterval) * time.Second,
		Environment:          getEnv("TRACKER_ENVIRONMENT", "development"),
	}

	cfg.bindTimezone()
	return cfg
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.WatchlistPath == "" {
		return errors.NewConfiguration("WATCHLIST_PATH is required", nil)
	}
	if c.DatabaseDSN == "" {
		return errors.NewConfiguration("DATABASE_DSN is required", nil)
	}
	if c.MessageTarget == "" && !c.DryRun {
		return errors.NewConfiguration("MESSAGE_TARGET is required unless DIGEST_DRY_RUN=true", nil)
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return errors.NewConfiguration("delay range is invalid", nil)
	}
	if c.HistoryDays <= 0 {
		return errors.NewConfiguration("HISTORY_DAYS must be positive", nil)
	}
	return nil
}

// Location resolves the configured day-bucketing timezone.
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

func (c *Config) bindTimezone() {
	loc, err := time.LoadLocation(c.DayTimezone)
	if err != nil {
		loc, _ = time.LoadLocation(defaultTimezone)
		c.DayTimezone = defaultTimezone
	}
	c.location = loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
