package httpapi

import (
	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/scrape"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SearchRequest is the POST /search body. Every field is optional; pointer
// fields distinguish "absent" from an explicit zero so config defaults only
// fill true gaps.
type SearchRequest struct {
	Keywords        []string            `json:"keywords"`
	CompaniesConfig map[string][]string `json:"companies_config"`

	WDLimit    *int `json:"wd_limit" validate:"omitempty,gte=0"`
	WDMaxPages *int `json:"wd_max_pages" validate:"omitempty,gte=0"`

	Zip           string   `json:"zip"`
	RadiusMiles   *float64 `json:"radius_miles" validate:"omitempty,gte=0"`
	Lat           *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon           *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	IncludeRemote *bool    `json:"include_remote"`

	RequireClearance bool     `json:"require_clearance"`
	Clearances       []string `json:"clearances"`

	PayTypes  []string `json:"pay_types"`
	SalaryMin *float64 `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax *float64 `json:"salary_max" validate:"omitempty,gte=0"`
}

type SearchMeta struct {
	Count            int                  `json:"count"`
	Keywords         []string             `json:"keywords"`
	Boards           map[string][]string  `json:"boards"`
	SourceCounts     []scrape.SourceCount `json:"source_counts"`
	Zip              string               `json:"zip,omitempty"`
	RadiusMiles      float64              `json:"radius_miles"`
	RadiusApplied    bool                 `json:"radius_applied"`
	IncludeRemote    bool                 `json:"include_remote"`
	RequireClearance bool                 `json:"require_clearance"`
	PayTypes         []string             `json:"pay_types,omitempty"`
	SalaryMin        *float64             `json:"salary_min,omitempty"`
	SalaryMax        *float64             `json:"salary_max,omitempty"`
	DurationMS       int64                `json:"duration_ms"`
}

type SearchResponse struct {
	Results []domain.Job `json:"results"`
	Meta    SearchMeta   `json:"meta"`
}

// BookmarkRequest is shared by POST and PATCH /bookmarks.
type BookmarkRequest struct {
	URL    string `json:"url" validate:"required"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}
