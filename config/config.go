package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"luckyball/models"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Game configuration
	StartingBalance int64             // balance granted to a newly created player
	EntryFee        int64             // fixed stake debited per bet
	Prizes          models.PrizeTable // payout rungs per tier

	// Draw scheduling
	BettingWindow time.Duration // createDraw: time from creation until betting closes
	ResultDelay   time.Duration // createDraw: time from betting close until results publish

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Game settings with defaults
		StartingBalance: 1000,
		EntryFee:        10,
		Prizes:          models.DefaultPrizeTable(),

		// Draw scheduling defaults
		BettingWindow: 30 * time.Minute,
		ResultDelay:   5 * time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if fee := os.Getenv("ENTRY_FEE"); fee != "" {
		if parsedFee, err := strconv.ParseInt(fee, 10, 64); err == nil {
			config.EntryFee = parsedFee
		}
	}
	if window := os.Getenv("BETTING_WINDOW_MINUTES"); window != "" {
		if minutes, err := strconv.Atoi(window); err == nil {
			config.BettingWindow = time.Duration(minutes) * time.Minute
		}
	}
	if delay := os.Getenv("RESULT_DELAY_MINUTES"); delay != "" {
		if minutes, err := strconv.Atoi(delay); err == nil {
			config.ResultDelay = time.Duration(minutes) * time.Minute
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
