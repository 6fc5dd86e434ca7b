package domain

// Source names as they appear in search requests and Job.Source.
const (
	SourceLever      = "lever"
	SourceGreenhouse = "greenhouse"
	SourceWorkday    = "workday"
)

// SourceOrder fixes the fan-out and merge order across sources so that a
// search over the same configuration always yields the same result order.
var SourceOrder = []string{SourceLever, SourceGreenhouse, SourceWorkday}

// Job is the normalized posting shape shared by all source adapters.
// URL is the identity key for de-duplication; a job with an empty URL has
// no identity and is never deduplicated against anything.
type Job struct {
	Source      string   `json:"source"`
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Department  string   `json:"department"`
	WorkType    string   `json:"work_type"`
	PayType     string   `json:"pay_type"` // "hourly", "salary", or "" when unknown
	CompMin     *float64 `json:"comp_annual_min"`
	CompMax     *float64 `json:"comp_annual_max"`
	PostedAt    string   `json:"posted_at"` // vendor timestamp as-is, may be empty
	ContentHTML string   `json:"content_html"`
}

// CompKnown reports whether any compensation figure was extracted.
func (j Job) CompKnown() bool { return j.CompMin != nil }

// CompRange returns the annualized [min, max] bounds, treating a missing
// max as equal to min. Callers must check CompKnown first.
func (j Job) CompRange() (float64, float64) {
	lo := *j.CompMin
	hi := lo
	if j.CompMax != nil {
		hi = *j.CompMax
	}
	return lo, hi
}
