package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "postgres://localhost:5432/pricetracker", config.DatabaseDSN)
	assert.Equal(t, "telegram", config.MessageChannel)
	assert.Equal(t, "openclaw", config.OpenClawBin)
	assert.Equal(t, 90*time.Second, config.BrowserTimeout)
	assert.Equal(t, 2*time.Second, config.MinDelay)
	assert.Equal(t, 6*time.Second, config.MaxDelay)
	assert.Equal(t, 5, config.HistoryDays)
	assert.Equal(t, "UTC", config.DayTimezone)
	assert.Equal(t, "New", config.OfferCondition)
	assert.Equal(t, time.Duration(0), config.RunInterval)

	// Test with environment variables
	os.Setenv("DATABASE_DSN", "postgres://db.example.com:5432/tracker")
	os.Setenv("MESSAGE_CHANNEL", "matrix")
	os.Setenv("MIN_DELAY_SECONDS", "0.5")
	os.Setenv("MAX_DELAY_SECONDS", "1.5")
	os.Setenv("HISTORY_DAYS", "7")
	os.Setenv("DAY_TIMEZONE", "Europe/London")

	config = LoadConfig()
	assert.Equal(t, "postgres://db.example.com:5432/tracker", config.DatabaseDSN)
	assert.Equal(t, "matrix", config.MessageChannel)
	assert.Equal(t, 500*time.Millisecond, config.MinDelay)
	assert.Equal(t, 1500*time.Millisecond, config.MaxDelay)
	assert.Equal(t, 7, config.HistoryDays)
	assert.Equal(t, "Europe/London", config.Location().String())

	// Clean up
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("MESSAGE_CHANNEL")
	os.Unsetenv("MIN_DELAY_SECONDS")
	os.Unsetenv("MAX_DELAY_SECONDS")
	os.Unsetenv("HISTORY_DAYS")
	os.Unsetenv("DAY_TIMEZONE")
}

func TestLoadConfigStreamCountClamped(t *testing.T) {
	defer os.Unsetenv("REDIS_STREAM_COUNT")

	for _, value := range []string{"0", "-3", "garbage"} {
		os.Setenv("REDIS_STREAM_COUNT", value)
		config := LoadConfig()
		assert.Equal(t, 1, config.RedisStreamCount, "REDIS_STREAM_COUNT=%s", value)
	}
}

func TestLoadConfigUnknownTimezone(t *testing.T) {
	os.Setenv("DAY_TIMEZONE", "Mars/Olympus")
	defer os.Unsetenv("DAY_TIMEZONE")

	config := LoadConfig()
	assert.Equal(t, "UTC", config.DayTimezone)
	assert.Equal(t, "UTC", config.Location().String())
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.WatchlistPath = "/tmp/watchlist.json"
	cfg.MessageTarget = "12345"
	assert.NoError(t, cfg.Validate())

	missing := cfg
	missing.WatchlistPath = ""
	assert.Error(t, missing.Validate())

	noTarget := cfg
	noTarget.MessageTarget = ""
	assert.Error(t, noTarget.Validate())
	noTarget.DryRun = true
	assert.NoError(t, noTarget.Validate())

	badDelay := cfg
	badDelay.MaxDelay = badDelay.MinDelay - time.Second
	assert.Error(t, badDelay.Validate())
}
