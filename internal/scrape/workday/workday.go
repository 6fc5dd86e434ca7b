package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/scrape/types"
	"isdjobs-api/internal/scrape/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// fallbackHosts is the fixed candidate order tried after the hinted host
// (or from the start when the spec carries no hint). Most tenants live on
// wd5 or wd1.
var fallbackHosts = []string{"wd5", "wd1", "wd3", "wd2"}

var reHostHint = regexp.MustCompile(`^wd[0-9]+$`)

// Spec identifies one career site as "tenant|site|host". Site and host are
// optional: "leidos", "leidos|External", "leidos|External|wd5" are all valid.
type Spec struct {
	Tenant string
	Site   string
	Host   string
}

// ParseSpec splits and validates a tenant spec string. The tenant obeys the
// same token rules as other board identifiers; the site and host hint are
// checked so they cannot smuggle path or query segments into built URLs.
func ParseSpec(raw string) (Spec, error) {
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	sp := Spec{Tenant: parts[0], Site: "External"}
	if len(parts) > 1 && parts[1] != "" {
		sp.Site = parts[1]
	}
	if len(parts) > 2 {
		sp.Host = parts[2]
	}

	if !util.ValidBoardToken(sp.Tenant) {
		return Spec{}, errors.Wrapf(types.ErrInvalidBoardToken, "workday tenant %q", sp.Tenant)
	}
	if strings.ContainsAny(sp.Site, "/?#% ") {
		return Spec{}, errors.Wrapf(types.ErrInvalidBoardToken, "workday site %q", sp.Site)
	}
	if sp.Host != "" && !reHostHint.MatchString(sp.Host) {
		return Spec{}, errors.Wrapf(types.ErrInvalidBoardToken, "workday host hint %q", sp.Host)
	}
	return sp, nil
}

func (sp Spec) hostCandidates() []string {
	hosts := make([]string, 0, len(fallbackHosts)+1)
	if sp.Host != "" {
		hosts = append(hosts, sp.Host)
	}
	for _, h := range fallbackHosts {
		if h != sp.Host {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func (sp Spec) baseURL(host string) string {
	return fmt.Sprintf("https://%s.%s.myworkdayjobs.com", sp.Tenant, host)
}

func (sp Spec) jobsEndpoint(host string) string {
	return fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", sp.baseURL(host), sp.Tenant, sp.Site)
}

// Scraper queries Workday CXS search endpoints. Unlike Lever and Greenhouse
// there is no listings cache: pagination depth varies per request, so cached
// pages from one search would be wrong for the next.
type Scraper struct {
	hc      types.HTTPClient
	limiter *util.HostLimiter
	ua      string
}

func New(limiter *util.HostLimiter, userAgent string) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 25 * time.Second},
		limiter: limiter,
		ua:      userAgent,
	}
}

func (s *Scraper) SetHTTPClient(c types.HTTPClient) { s.hc = c }

func (s *Scraper) Name() string { return domain.SourceWorkday }

type searchPayload struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type pageResponse struct {
	Total       int         `json:"total"`
	JobPostings []wdPosting `json:"jobPostings"`
}

type wdPosting struct {
	Title         string   `json:"title"`
	Locations     []string `json:"locations"`
	LocationsText string   `json:"locationsText"`
	ExternalPath  string   `json:"externalPath"`
	PostedOn      string   `json:"postedOn"`
	JobFamily     string   `json:"jobFamily"`
}

// Fetch tries each candidate host in order until one yields postings. A host
// that answers cleanly with nothing is not a failure; the next candidate is
// tried. Once any host returns jobs no further hosts are attempted, even if
// its pagination stopped on an error partway through.
func (s *Scraper) Fetch(ctx context.Context, req types.FetchRequest) ([]domain.Job, error) {
	sp, err := ParseSpec(req.Board)
	if err != nil {
		return nil, err
	}

	limit := req.PageLimit
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	var lastErr error
	for _, host := range sp.hostCandidates() {
		jobs, err := s.fetchHost(ctx, sp, host, req.SearchText, limit, req.MaxPages)
		if len(jobs) > 0 {
			if err != nil {
				log.Debugf("[ats:workday] tenant=%s host=%s stopped early: %v", sp.Tenant, host, err)
			}
			log.Debugf("[ats:workday] tenant=%s host=%s jobs=%d", sp.Tenant, host, len(jobs))
			return jobs, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, errors.Wrapf(lastErr, "workday tenant %q", sp.Tenant)
	}
	return nil, nil
}

func (s *Scraper) fetchHost(ctx context.Context, sp Spec, host, searchText string, limit, maxPages int) ([]domain.Job, error) {
	endpoint := sp.jobsEndpoint(host)
	base := sp.baseURL(host)

	var out []domain.Job
	offset := 0
	for page := 0; page < maxPages; page++ {
		payload, err := json.Marshal(searchPayload{
			AppliedFacets: map[string]any{},
			Limit:         limit,
			Offset:        offset,
			SearchText:    searchText,
		})
		if err != nil {
			return out, err
		}

		hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return out, err
		}
		hreq.Header.Set("User-Agent", s.ua)
		hreq.Header.Set("Accept", "application/json, text/plain, */*")
		hreq.Header.Set("Content-Type", "application/json")
		hreq.Header.Set("Accept-Language", "en-US,en;q=0.9")

		if s.limiter != nil {
			if err := s.limiter.WaitURL(ctx, endpoint); err != nil {
				return out, err
			}
		}
		res, err := s.hc.Do(hreq)
		if err != nil {
			return out, fmt.Errorf("workday post jobs: %w", err)
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			break
		}

		var pr pageResponse
		err = json.NewDecoder(res.Body).Decode(&pr)
		res.Body.Close()
		if err != nil {
			return out, fmt.Errorf("workday decode: %w", err)
		}
		if len(pr.JobPostings) == 0 {
			break
		}

		for _, p := range pr.JobPostings {
			out = append(out, mapPosting(sp, base, p))
		}

		got := len(pr.JobPostings)
		offset += got
		if got < limit {
			break
		}
	}
	return out, nil
}

func mapPosting(sp Spec, base string, p wdPosting) domain.Job {
	location := strings.Join(p.Locations, ", ")
	if location == "" {
		location = p.LocationsText
	}
	location = util.CleanText(location)

	viewURL := ""
	if path := strings.TrimSpace(p.ExternalPath); path != "" {
		viewURL = fmt.Sprintf("%s/%s/job/%s", base, sp.Site, strings.TrimPrefix(path, "/"))
	}

	return domain.Job{
		Source:     domain.SourceWorkday,
		Company:    sp.Tenant,
		Title:      util.CleanText(p.Title),
		Location:   location,
		Remote:     strings.Contains(strings.ToLower(location), "remote"),
		URL:        viewURL,
		Department: util.CleanText(p.JobFamily),
		PostedAt:   strings.TrimSpace(p.PostedOn),
	}
}
