package httpapi

import (
	"context"
	"sync/atomic"

	"isdjobs-api/internal/config"
	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/events"
	"isdjobs-api/internal/filter"
	"isdjobs-api/internal/scrape"
	"isdjobs-api/internal/store"
)

// Collector is what the search handler needs from the aggregation layer;
// tests swap in a stub.
type Collector interface {
	Collect(ctx context.Context, req scrape.Request) ([]domain.Job, []scrape.SourceCount)
}

type Deps struct {
	Collector Collector
	Filter    *filter.Engine
	Bookmarks *store.Bookmarks
	Hub       *events.Hub

	// Atomic store holding config.Config; PUT /config swaps it
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
