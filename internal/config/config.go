// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultTheirStackURL = "https://api.theirstack.com/v1/jobs/search"

// Config holds all runtime configuration for the jobs service.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	TheirStackURL     string
	TheirStackAPIKey  string // empty disables aggregator syncs
	OpenAIAPIKey      string // empty disables LLM classification
	GoogleMapsAPIKey  string // empty falls back to the offline geocoder
	SyncIntervalHours int    // How often the cron job fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("SYNC_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SYNC_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	apiURL := os.Getenv("THEIRSTACK_API_URL")
	if apiURL == "" {
		apiURL = defaultTheirStackURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		TheirStackURL:     apiURL,
		TheirStackAPIKey:  os.Getenv("THEIRSTACK_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		SyncIntervalHours: interval,
	}, nil
}
