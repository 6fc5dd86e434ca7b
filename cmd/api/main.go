package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"isdjobs-api/internal/config"
	"isdjobs-api/internal/events"
	"isdjobs-api/internal/filter"
	"isdjobs-api/internal/geo"
	"isdjobs-api/internal/httpapi"
	"isdjobs-api/internal/logger"
	"isdjobs-api/internal/metrics"
	"isdjobs-api/internal/scrape"
	"isdjobs-api/internal/scrape/greenhouse"
	"isdjobs-api/internal/scrape/lever"
	"isdjobs-api/internal/scrape/util"
	"isdjobs-api/internal/scrape/workday"
	"isdjobs-api/internal/store"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Data dir: env wins so containers can mount a volume, else local folder.
	dataDir := os.Getenv("ISDJOBS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable: PUT /config stores a fresh copy.
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		c, err := config.Load(userCfgPath)
		if err != nil {
			return c, err
		}
		config.OverlayEnv(&c)
		normalized, vr := config.NormalizeAndValidate(c)
		if !vr.OK() {
			return c, errors.Errorf("config invalid:\n- %s", strings.Join(vr.Errors, "\n- "))
		}
		for _, warn := range vr.Warnings {
			log.Warnf("[config] %s", warn)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	logger.Setup(cfg.Log)
	metrics.Register()

	limiter := util.NewHostLimiter(cfg.HTTP.HostRatePerSec, cfg.HTTP.HostBurst)

	// Lever and Greenhouse listings share one cache; Workday result pages
	// depend on the request and are never cached.
	listingsTTL := time.Duration(cfg.Sources.CacheTTLSeconds) * time.Second
	listings := gocache.New(listingsTTL, 2*listingsTTL)

	var geocoder geo.Geocoder = geo.Noop{}
	if cfg.Geocoding.Provider == "nominatim" {
		geoTTL := time.Duration(cfg.Geocoding.CacheTTLSeconds) * time.Second
		geocoder = geo.NewNominatim(cfg.Geocoding.Endpoint, cfg.Geocoding.CountryBias,
			cfg.HTTP.UserAgent, gocache.New(geoTTL, 2*geoTTL))
	}

	collector := scrape.NewCollector(
		time.Duration(cfg.Search.FetchTimeoutSeconds)*time.Second,
		cfg.Search.MaxConcurrentFetches,
		lever.New(listings, limiter, cfg.HTTP.UserAgent),
		greenhouse.New(listings, limiter, cfg.HTTP.UserAgent),
		workday.New(limiter, cfg.HTTP.UserAgent),
	)

	deps := httpapi.Deps{
		Collector:   collector,
		Filter:      filter.NewEngine(geocoder),
		Bookmarks:   store.NewBookmarks(),
		Hub:         events.NewHub(),
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	}

	handler := httpapi.Chain(httpapi.NewMux(deps),
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Recover,
		httpapi.Cors(cfg.App.AllowedOrigins),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("listening on %s (config=%s)", srv.Addr, userCfgPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
