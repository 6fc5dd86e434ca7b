package config

import (
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies environment overrides on top of the file config.
// Deployments that can't touch the config file (containers, CI) set these.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("ISDJOBS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = port
		}
	}
	if v := os.Getenv("ISDJOBS_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		if v == "*" {
			cfg.App.AllowedOrigins = nil // echo any origin
		} else {
			cfg.App.AllowedOrigins = strings.Split(v, ",")
		}
	}
	if v := os.Getenv("ISDJOBS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
