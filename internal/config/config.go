// Package config provides runtime configuration values for the simulator.
package config

import (
	"os"
	"strings"
)

// Config holds the knobs read from the environment.
type Config struct {
	LogLevel       string
	SeedFile       string
	ScriptFile     string
	ChangeStrategy string
	MetricsFile    string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		LogLevel:       getenv("LOG_LEVEL", "info"),
		SeedFile:       getenv("SEED_FILE", ""),
		ScriptFile:     getenv("SCRIPT_FILE", ""),
		ChangeStrategy: strings.ToLower(getenv("CHANGE_STRATEGY", "greedy")),
		MetricsFile:    getenv("METRICS_FILE", ""),
	}
}
