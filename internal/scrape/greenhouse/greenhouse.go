package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
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

// New builds the Greenhouse adapter. The cache is the process-wide
// listings cache shared with Lever.
func New(cache *gocache.Cache, limiter *util.HostLimiter, userAgent string) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		cache:   cache,
		ua:      userAgent,
	}
}

func (s *Scraper) SetHTTPClient(c types.HTTPClient) { s.hc = c }

func (s *Scraper) Name() string { return domain.SourceGreenhouse }

type listing struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
	Metadata []struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	} `json:"metadata"`
	Content string `json:"content"` // entity-escaped html
}

func (s *Scraper) Fetch(ctx context.Context, req types.FetchRequest) ([]domain.Job, error) {
	token := strings.TrimSpace(req.Board)
	if !util.ValidBoardToken(token) {
		return nil, errors.Wrapf(types.ErrInvalidBoardToken, "greenhouse board %q", token)
	}

	cacheKey := domain.SourceGreenhouse + ":" + token
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.ListingsCacheHits.Inc()
		return cached.([]domain.Job), nil
	}

	apiURL := fmt.Sprintf("https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true", token)

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
		return nil, fmt.Errorf("greenhouse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("greenhouse status %d", res.StatusCode)
	}

	var board listing
	if err := json.NewDecoder(res.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	jobs := make([]domain.Job, 0, len(board.Jobs))
	for _, j := range board.Jobs {
		jobs = append(jobs, mapJob(token, j))
	}
	s.cache.Set(cacheKey, jobs, gocache.DefaultExpiration)

	log.Debugf("[ats:greenhouse] board=%s jobs=%d", token, len(jobs))
	return jobs, nil
}

func mapJob(board string, j boardJob) domain.Job {
	title := util.CleanText(j.Title)
	location := util.CleanText(j.Location.Name)

	department := ""
	if len(j.Departments) > 0 {
		department = util.CleanText(j.Departments[0].Name)
	}

	// The boards API returns content with entities escaped.
	content := html.UnescapeString(j.Content)

	blob := strings.Join([]string{title, department, location, util.StripHTML(content)}, " ")
	compMin, compMax, payType := util.ExtractAnnualComp(blob)

	return domain.Job{
		Source:      domain.SourceGreenhouse,
		Company:     board,
		Title:       title,
		Location:    location,
		Remote:      strings.Contains(strings.ToLower(location), "remote"),
		URL:         strings.TrimSpace(j.AbsoluteURL),
		Department:  department,
		WorkType:    employmentType(j),
		PayType:     payType,
		CompMin:     compMin,
		CompMax:     compMax,
		PostedAt:    j.UpdatedAt,
		ContentHTML: content,
	}
}

// employmentType pulls the "Employment Type" entry out of the board's
// custom metadata, when one exists and is a plain string.
func employmentType(j boardJob) string {
	for _, m := range j.Metadata {
		if !strings.EqualFold(util.CleanText(m.Name), "employment type") {
			continue
		}
		var v string
		if err := json.Unmarshal(m.Value, &v); err == nil {
			return util.CleanText(v)
		}
	}
	return ""
}
