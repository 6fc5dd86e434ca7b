package types

import (
	"context"
	"net/http"

	"isdjobs-api/internal/domain"

	"github.com/pkg/errors"
)

// ErrInvalidBoardToken marks a configured identifier that failed validation
// before any network call was made. Aggregation skips these silently.
var ErrInvalidBoardToken = errors.New("invalid board token")

// HTTPClient is the slice of http.Client the adapters need; tests swap in
// a mock via each adapter's SetHTTPClient.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchRequest carries the per-search inputs an adapter needs for one
// board. SearchText, PageLimit and MaxPages only matter to Workday.
type FetchRequest struct {
	Board      string
	SearchText string
	PageLimit  int
	MaxPages   int
}

// Fetcher is one ATS adapter. Fetch returns the normalized postings for a
// single board; an error means this board contributed nothing, never that
// the search should fail.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req FetchRequest) ([]domain.Job, error)
}
