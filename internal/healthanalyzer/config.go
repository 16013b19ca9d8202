package healthanalyzer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port     string
	Interval time.Duration
	Window   time.Duration
	// Locations пустой означает все локации, встреченные в окне
	Locations []string
	// Retention 0 отключает удаление старых измерений
	Retention time.Duration
}

func LoadConfigFromEnv() (Config, error) {
	interval, err := time.ParseDuration(getEnv("ANALYZER_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANALYZER_INTERVAL: %w", err)
	}

	if interval < 5*time.Second {
		return Config{}, errors.New("ANALYZER_INTERVAL must be >= 5s")
	}

	window, err := time.ParseDuration(getEnv("ANALYZER_WINDOW", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANALYZER_WINDOW: %w", err)
	}

	if window <= 0 {
		return Config{}, errors.New("ANALYZER_WINDOW must be positive")
	}

	retention, err := time.ParseDuration(getEnv("ANALYZER_RETENTION", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ANALYZER_RETENTION: %w", err)
	}

	if retention < 0 || (retention > 0 && retention < window) {
		return Config{}, errors.New("ANALYZER_RETENTION must be 0 or at least ANALYZER_WINDOW")
	}

	return Config{
		Port:      getEnv("ANALYZER_PORT", "8081"),
		Interval:  interval,
		Window:    window,
		Locations: splitLocations(os.Getenv("ANALYZER_LOCATIONS")),
		Retention: retention,
	}, nil
}

func splitLocations(raw string) []string {
	var locations []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			locations = append(locations, name)
		}
	}
	return locations
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
