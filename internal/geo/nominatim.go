package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"isdjobs-api/internal/logger"
	"isdjobs-api/internal/metrics"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://nominatim.openstreetmap.org/search"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Nominatim resolves zips and place names through a Nominatim search
// endpoint. Lookups are cached, including definitive misses, so repeated
// job locations in one search cost one upstream call. The public instance's
// usage policy caps traffic at one request per second.
type Nominatim struct {
	hc       HTTPClient
	endpoint string
	bias     string
	ua       string
	limiter  *rate.Limiter
	cache    *gocache.Cache
}

type lookup struct {
	pt Point
	ok bool
}

func NewNominatim(endpoint, countryBias, userAgent string, cache *gocache.Cache) *Nominatim {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	return &Nominatim{
		hc:       &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
		bias:     countryBias,
		ua:       userAgent,
		limiter:  rate.NewLimiter(1, 1),
		cache:    cache,
	}
}

func (n *Nominatim) SetHTTPClient(c HTTPClient) { n.hc = c }

func (n *Nominatim) Zip(ctx context.Context, zip string) (Point, bool) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return Point{}, false
	}
	q := url.Values{}
	q.Set("postalcode", zip)
	return n.resolve(ctx, "zip:"+zip, q)
}

func (n *Nominatim) Location(ctx context.Context, loc string) (Point, bool) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return Point{}, false
	}
	q := url.Values{}
	q.Set("q", loc)
	return n.resolve(ctx, "loc:"+strings.ToLower(loc), q)
}

func (n *Nominatim) resolve(ctx context.Context, key string, q url.Values) (Point, bool) {
	if v, found := n.cache.Get(key); found {
		metrics.GeocodeCacheHits.Inc()
		l := v.(lookup)
		return l.pt, l.ok
	}

	q.Set("format", "json")
	q.Set("limit", "1")
	if n.bias != "" {
		q.Set("countrycodes", n.bias)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Point{}, false
	}
	req.Header.Set("User-Agent", n.ua)
	req.Header.Set("Accept", "application/json")

	if err := n.limiter.Wait(ctx); err != nil {
		return Point{}, false
	}
	res, err := n.hc.Do(req)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeGeocode).Warnf("[geo] %s: %v", key, err)
		return Point{}, false
	}
	defer res.Body.Close()
	// transient upstream trouble is not cached; an empty result set below is
	if res.StatusCode != http.StatusOK {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeGeocode).Warnf("[geo] %s: status %d", key, res.StatusCode)
		return Point{}, false
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(res.Body).Decode(&hits); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeGeocode).Warnf("[geo] %s: decode: %v", key, err)
		return Point{}, false
	}

	var l lookup
	if len(hits) > 0 {
		lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
		lon, errLon := strconv.ParseFloat(hits[0].Lon, 64)
		if errLat == nil && errLon == nil {
			l = lookup{pt: Point{Lat: lat, Lon: lon}, ok: true}
		}
	}
	n.cache.Set(key, l, gocache.DefaultExpiration)
	return l.pt, l.ok
}
