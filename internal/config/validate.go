package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills in defaults for absent values, tidies list
// fields, and reports anything that would make the service misbehave.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	// ---- Defaults ----

	if out.App.Port == 0 {
		out.App.Port = 8080
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		out.App.DataDir = "."
	}
	if out.Log.Level == "" {
		out.Log.Level = "info"
	}
	if out.Log.Format == "" {
		out.Log.Format = "text"
	}
	if strings.TrimSpace(out.HTTP.UserAgent) == "" {
		out.HTTP.UserAgent = "isdjobs/1.0"
	}
	if out.HTTP.TimeoutSeconds <= 0 {
		out.HTTP.TimeoutSeconds = 20
	}
	if out.HTTP.HostRatePerSec <= 0 {
		out.HTTP.HostRatePerSec = 4
	}
	if out.HTTP.HostBurst <= 0 {
		out.HTTP.HostBurst = 4
	}
	if out.Sources.CacheTTLSeconds <= 0 {
		out.Sources.CacheTTLSeconds = 120
	}
	if out.Sources.Workday.PageLimit <= 0 {
		out.Sources.Workday.PageLimit = 50
	}
	if out.Sources.Workday.MaxPages <= 0 {
		out.Sources.Workday.MaxPages = 2
	}
	if out.Geocoding.Provider == "" {
		out.Geocoding.Provider = "none"
	}
	if strings.TrimSpace(out.Geocoding.Endpoint) == "" {
		out.Geocoding.Endpoint = "https://nominatim.openstreetmap.org/search"
	}
	if out.Geocoding.CacheTTLSeconds <= 0 {
		out.Geocoding.CacheTTLSeconds = 3600
	}
	if out.Search.DefaultRadiusMiles <= 0 {
		out.Search.DefaultRadiusMiles = 50
	}
	if out.Search.FetchTimeoutSeconds <= 0 {
		out.Search.FetchTimeoutSeconds = 25
	}
	if out.Search.MaxConcurrentFetches <= 0 {
		out.Search.MaxConcurrentFetches = 8
	}

	// ---- Normalization ----

	out.App.AllowedOrigins = trimList(out.App.AllowedOrigins)
	out.Sources.Lever.Boards = trimList(out.Sources.Lever.Boards)
	out.Sources.Greenhouse.Boards = trimList(out.Sources.Greenhouse.Boards)
	out.Sources.Workday.Boards = trimList(out.Sources.Workday.Boards)
	out.Search.ClearanceTerms = trimList(out.Search.ClearanceTerms)
	out.Geocoding.Provider = strings.ToLower(strings.TrimSpace(out.Geocoding.Provider))

	// ---- Validation rules ----

	if out.App.Port < 1 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		res.addErr("log.level must be one of debug, info, warn, error (got %q)", out.Log.Level)
	}
	switch out.Log.Format {
	case "text", "json":
	default:
		res.addErr("log.format must be text or json (got %q)", out.Log.Format)
	}

	switch out.Geocoding.Provider {
	case "none", "nominatim":
	default:
		res.addErr("geocoding.provider must be none or nominatim (got %q)", out.Geocoding.Provider)
	}

	if out.Sources.Workday.PageLimit > 100 {
		res.addWarn("sources.workday.page_limit is %d; the endpoint caps pages at 100.", out.Sources.Workday.PageLimit)
	}

	if !out.Sources.Lever.Enabled && !out.Sources.Greenhouse.Enabled && !out.Sources.Workday.Enabled {
		res.addWarn("No sources enabled: every search will return zero results.")
	}

	if out.Geocoding.Provider == "none" && out.Search.DefaultRadiusMiles > 0 {
		res.addWarn("geocoding.provider is none; zip-based radius filtering will be skipped.")
	}

	if out.HTTP.HostRatePerSec > 10 {
		res.addWarn("http.host_rate_per_sec is %.1f; public ATS endpoints may rate-limit above a few requests per second.", out.HTTP.HostRatePerSec)
	}

	return out, res
}
