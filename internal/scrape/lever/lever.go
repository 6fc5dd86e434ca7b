package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/metrics"
	"isdjobs-api/internal/scrape/types"
	"isdjobs-api/internal/scrape/util"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Scraper struct {
	hc      types.HTTPClient
	limiter *util.HostLimiter
	cache   *gocache.Cache
	ua      string
}

// New builds the Lever adapter. The cache is the process-wide listings
// cache shared with Greenhouse; entries expire on its TTL.
func New(cache *gocache.Cache, limiter *util.HostLimiter, userAgent string) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		cache:   cache,
		ua:      userAgent,
	}
}

func (s *Scraper) SetHTTPClient(c types.HTTPClient) { s.hc = c }

func (s *Scraper) Name() string { return domain.SourceLever }

type posting struct {
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	Description string `json:"description"` // html
}

func (s *Scraper) Fetch(ctx context.Context, req types.FetchRequest) ([]domain.Job, error) {
	token := strings.TrimSpace(req.Board)
	if !util.ValidBoardToken(token) {
		return nil, errors.Wrapf(types.ErrInvalidBoardToken, "lever board %q", token)
	}

	cacheKey := domain.SourceLever + ":" + token
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.ListingsCacheHits.Inc()
		return cached.([]domain.Job), nil
	}

	apiURL := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", token)

	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("User-Agent", s.ua)
	hreq.Header.Set("Accept", "application/json")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, err
		}
	}
	res, err := s.hc.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("lever get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lever status %d", res.StatusCode)
	}

	var postings []posting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	jobs := make([]domain.Job, 0, len(postings))
	for _, p := range postings {
		jobs = append(jobs, mapPosting(token, p))
	}
	s.cache.Set(cacheKey, jobs, gocache.DefaultExpiration)

	log.Debugf("[ats:lever] board=%s jobs=%d", token, len(jobs))
	return jobs, nil
}

func mapPosting(board string, p posting) domain.Job {
	title := util.CleanText(p.Text)
	location := util.CleanText(p.Categories.Location)
	department := util.CleanText(p.Categories.Team)

	postedAt := ""
	if p.CreatedAt > 0 {
		postedAt = time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339)
	}

	blob := strings.Join([]string{title, department, location, util.StripHTML(p.Description)}, " ")
	compMin, compMax, payType := util.ExtractAnnualComp(blob)

	return domain.Job{
		Source:      domain.SourceLever,
		Company:     board,
		Title:       title,
		Location:    location,
		Remote:      strings.Contains(strings.ToLower(location), "remote"),
		URL:         strings.TrimSpace(p.HostedURL),
		Department:  department,
		WorkType:    util.CleanText(p.Categories.Commitment),
		PayType:     payType,
		CompMin:     compMin,
		CompMax:     compMax,
		PostedAt:    postedAt,
		ContentHTML: p.Description,
	}
}
