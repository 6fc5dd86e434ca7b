package filter

import (
	"context"
	"strings"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/geo"
	"isdjobs-api/internal/scrape/util"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// DefaultClearanceTerms is the fallback vocabulary when neither the request
// nor the config names any.
var DefaultClearanceTerms = []string{
	"ts/sci",
	"top secret",
	"secret",
	"public trust",
	"security clearance",
}

// Params are the per-request filter knobs, already resolved against config
// defaults by the caller.
type Params struct {
	Keywords         []string
	RequireClearance bool
	Clearances       []string
	Zip              string
	RadiusMiles      float64
	IncludeRemote    bool
	PayTypes         []string
	SalaryMin        *float64
	SalaryMax        *float64
	Lat              *float64
	Lon              *float64
}

// Outcome reports what origin resolution decided for this run.
type Outcome struct {
	RadiusApplied bool
	Origin        *geo.Point
}

type Engine struct {
	geo geo.Geocoder
}

func NewEngine(g geo.Geocoder) *Engine {
	return &Engine{geo: g}
}

// Apply runs the filter stages over jobs and ranks the survivors.
func (e *Engine) Apply(ctx context.Context, jobs []domain.Job, p Params) ([]domain.Job, Outcome) {
	var out Outcome

	// 1) origin resolution: explicit coordinates win over zip; an origin
	// that cannot be resolved disables radius filtering for the whole run
	var origin geo.Point
	if p.Lat != nil && p.Lon != nil {
		origin = geo.Point{Lat: *p.Lat, Lon: *p.Lon}
		out.RadiusApplied = true
	} else if strings.TrimSpace(p.Zip) != "" {
		if pt, ok := e.geo.Zip(ctx, p.Zip); ok {
			origin = pt
			out.RadiusApplied = true
		} else {
			log.Warnf("[filter] zip %q did not resolve; radius filtering disabled", p.Zip)
		}
	}
	if out.RadiusApplied {
		out.Origin = &origin
	}

	keywords := normalizeList(p.Keywords)
	clearances := normalizeList(p.Clearances)
	if p.RequireClearance && len(clearances) == 0 {
		clearances = DefaultClearanceTerms
	}
	payTypes := normalizeList(p.PayTypes)

	kept := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if !matchesKeyword(j, keywords) {
			continue
		}
		if p.RequireClearance && !mentionsClearance(j, clearances) {
			continue
		}
		if !e.passesLocation(ctx, j, p, out) {
			continue
		}
		if !passesPayType(j, payTypes) {
			continue
		}
		if !overlapsSalary(j, p.SalaryMin, p.SalaryMax) {
			continue
		}
		kept = append(kept, j)
	}

	Rank(kept)
	return kept, out
}

func normalizeList(in []string) []string {
	return lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})
}

// 2) keyword match over title+department; empty list matches everything
func matchesKeyword(j domain.Job, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	hay := strings.ToLower(j.Title + " " + j.Department)
	for _, k := range keywords {
		if strings.Contains(hay, k) {
			return true
		}
	}
	return false
}

// 3) clearance terms scan title, department, location and the stripped
// description
func mentionsClearance(j domain.Job, terms []string) bool {
	hay := strings.ToLower(strings.Join([]string{
		j.Title, j.Department, j.Location, util.StripHTML(j.ContentHTML),
	}, " "))
	for _, t := range terms {
		if strings.Contains(hay, t) {
			return true
		}
	}
	return false
}

// 4) remote/radius: a remote job passes when remote is allowed; otherwise
// the job's own location must resolve within the radius, unless radius
// filtering is off for the run
func (e *Engine) passesLocation(ctx context.Context, j domain.Job, p Params, out Outcome) bool {
	if p.IncludeRemote && j.Remote {
		return true
	}
	if !out.RadiusApplied {
		return true
	}
	if strings.TrimSpace(j.Location) == "" {
		return false
	}
	pt, ok := e.geo.Location(ctx, j.Location)
	if !ok {
		return false
	}
	return geo.WithinRadius(*out.Origin, pt, p.RadiusMiles)
}

// 5) pay type: only constrains jobs whose pay type is known
func passesPayType(j domain.Job, allowed []string) bool {
	if len(allowed) == 0 || j.PayType == "" {
		return true
	}
	return lo.Contains(allowed, strings.ToLower(j.PayType))
}

// 6) salary overlap: missing max is treated as the min; fully unknown
// compensation always passes
func overlapsSalary(j domain.Job, floor, ceil *float64) bool {
	if floor == nil && ceil == nil {
		return true
	}
	if !j.CompKnown() {
		return true
	}
	jobMin, jobMax := j.CompRange()
	if floor != nil && jobMax < *floor {
		return false
	}
	if ceil != nil && jobMin > *ceil {
		return false
	}
	return true
}
