package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"isdjobs-api/internal/config"
	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/events"
	"isdjobs-api/internal/filter"
	"isdjobs-api/internal/metrics"
	"isdjobs-api/internal/scrape"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type SearchHandler struct {
	Collector Collector
	Filter    *filter.Engine
	Hub       *events.Hub
	CfgVal    *atomic.Value
}

func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	// an empty body is a valid request: everything defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	start := time.Now()

	boards := resolveBoards(req.CompaniesConfig, cfg)

	pageLimit := cfg.Sources.Workday.PageLimit
	if req.WDLimit != nil {
		pageLimit = *req.WDLimit
	}
	maxPages := cfg.Sources.Workday.MaxPages
	if req.WDMaxPages != nil {
		maxPages = *req.WDMaxPages
	}

	jobs, counts := h.Collector.Collect(r.Context(), scrape.Request{
		Boards:     boards,
		SearchText: strings.TrimSpace(strings.Join(req.Keywords, " ")),
		PageLimit:  pageLimit,
		MaxPages:   maxPages,
	})

	params := filter.Params{
		Keywords:         req.Keywords,
		RequireClearance: req.RequireClearance,
		Clearances:       req.Clearances,
		Zip:              req.Zip,
		RadiusMiles:      cfg.Search.DefaultRadiusMiles,
		IncludeRemote:    true,
		PayTypes:         req.PayTypes,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		Lat:              req.Lat,
		Lon:              req.Lon,
	}
	if req.RadiusMiles != nil {
		params.RadiusMiles = *req.RadiusMiles
	}
	if req.IncludeRemote != nil {
		params.IncludeRemote = *req.IncludeRemote
	}
	if len(params.Clearances) == 0 {
		params.Clearances = cfg.Search.ClearanceTerms
	}

	results, outcome := h.Filter.Apply(r.Context(), jobs, params)
	if results == nil {
		results = []domain.Job{}
	}

	durMS := time.Since(start).Milliseconds()
	metrics.SearchesCounter.Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(reqID, events.TypeSearchCompleted, events.SearchCompletedData{
		Count:      len(results),
		DurationMS: durMS,
	})
	log.Infof("[search] request_id=%s merged=%d results=%d dur_ms=%d", reqID, len(jobs), len(results), durMS)

	writeJSON(w, SearchResponse{
		Results: results,
		Meta: SearchMeta{
			Count:            len(results),
			Keywords:         req.Keywords,
			Boards:           boards,
			SourceCounts:     counts,
			Zip:              req.Zip,
			RadiusMiles:      params.RadiusMiles,
			RadiusApplied:    outcome.RadiusApplied,
			IncludeRemote:    params.IncludeRemote,
			RequireClearance: req.RequireClearance,
			PayTypes:         req.PayTypes,
			SalaryMin:        req.SalaryMin,
			SalaryMax:        req.SalaryMax,
			DurationMS:       durMS,
		},
	})
}

// resolveBoards picks each source's board list: the request wins when it
// names any, otherwise the config list applies. Disabled sources contribute
// nothing either way.
func resolveBoards(fromReq map[string][]string, cfg config.Config) map[string][]string {
	pick := func(enabled bool, req, def []string) []string {
		if !enabled {
			return nil
		}
		if len(req) > 0 {
			return req
		}
		return def
	}
	return map[string][]string{
		domain.SourceLever:      pick(cfg.Sources.Lever.Enabled, fromReq[domain.SourceLever], cfg.Sources.Lever.Boards),
		domain.SourceGreenhouse: pick(cfg.Sources.Greenhouse.Enabled, fromReq[domain.SourceGreenhouse], cfg.Sources.Greenhouse.Boards),
		domain.SourceWorkday:    pick(cfg.Sources.Workday.Enabled, fromReq[domain.SourceWorkday], cfg.Sources.Workday.Boards),
	}
}
