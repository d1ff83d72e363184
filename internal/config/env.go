// Package config loads run settings for the obstacle commands from
// environment variables and optional JSON tuning files.
package config

import "os"

// Environment variables read by the commands.
const (
	EnvSource   = "OBSTACLE_SOURCE"
	EnvAddr     = "OBSTACLE_ADDR"
	EnvLogLevel = "OBSTACLE_LOG_LEVEL"
)

// Source returns the frame source from OBSTACLE_SOURCE.
// Falls back to def if not set.
func Source(def string) string {
	return env(EnvSource, def)
}

// Addr returns the web display address from OBSTACLE_ADDR or def.
func Addr(def string) string {
	return env(EnvAddr, def)
}

// LogLevel returns the log level from OBSTACLE_LOG_LEVEL or def.
func LogLevel(def string) string {
	return env(EnvLogLevel, def)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
