package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux returns the raw mux so main() can wrap it in middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Search
	sh := SearchHandler{
		Collector: d.Collector,
		Filter:    d.Filter,
		Hub:       d.Hub,
		CfgVal:    d.CfgVal,
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Search,
	}))

	// Bookmarks
	bh := BookmarksHandler{Store: d.Bookmarks, Hub: d.Hub}
	mux.HandleFunc("/bookmarks", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   bh.List,
		http.MethodPost:  bh.Add,
		http.MethodPatch: bh.Update,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Prometheus scrape endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
