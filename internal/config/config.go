package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type SourceConfig struct {
	Enabled bool     `yaml:"enabled"`
	Boards  []string `yaml:"boards"`
}

type WorkdayConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Boards    []string `yaml:"boards"` // "tenant|site|hostHint" specs
	PageLimit int      `yaml:"page_limit"`
	MaxPages  int      `yaml:"max_pages"`
}

type Config struct {
	App struct {
		Port           int      `yaml:"port"`
		DataDir        string   `yaml:"data_dir"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"app"`

	Log LogConfig `yaml:"log"`

	HTTP struct {
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		HostRatePerSec float64 `yaml:"host_rate_per_sec"`
		HostBurst      int     `yaml:"host_burst"`
	} `yaml:"http"`

	Sources struct {
		Lever           SourceConfig  `yaml:"lever"`
		Greenhouse      SourceConfig  `yaml:"greenhouse"`
		Workday         WorkdayConfig `yaml:"workday"`
		CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	} `yaml:"sources"`

	Geocoding struct {
		Provider        string `yaml:"provider"` // none or nominatim
		Endpoint        string `yaml:"endpoint"`
		CountryBias     string `yaml:"country_bias"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"geocoding"`

	Search struct {
		DefaultRadiusMiles   float64  `yaml:"default_radius_miles"`
		ClearanceTerms       []string `yaml:"clearance_terms"`
		FetchTimeoutSeconds  int      `yaml:"fetch_timeout_seconds"`
		MaxConcurrentFetches int      `yaml:"max_concurrent_fetches"`
	} `yaml:"search"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
