package scrape

import (
	"context"
	"sync"
	"testing"
	"time"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/scrape/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	name  string
	delay time.Duration
	err   error
	jobs  map[string][]domain.Job

	mu      sync.Mutex
	boards  []string
	lastReq types.FetchRequest
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, req types.FetchRequest) ([]domain.Job, error) {
	s.mu.Lock()
	s.boards = append(s.boards, req.Board)
	s.lastReq = req
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.jobs[req.Board], nil
}

func job(source, title, url string) domain.Job {
	return domain.Job{Source: source, Title: title, URL: url}
}

func titles(jobs []domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

func TestCollect_MergeOrderIgnoresFetchTiming(t *testing.T) {
	lv := &stubFetcher{name: domain.SourceLever, delay: 40 * time.Millisecond, jobs: map[string][]domain.Job{
		"acme":   {job(domain.SourceLever, "L1", "https://jobs.lever.co/acme/1")},
		"globex": {job(domain.SourceLever, "L2", "https://jobs.lever.co/globex/1")},
	}}
	gh := &stubFetcher{name: domain.SourceGreenhouse, delay: 10 * time.Millisecond, jobs: map[string][]domain.Job{
		"initech": {job(domain.SourceGreenhouse, "G1", "https://boards.greenhouse.io/initech/1")},
	}}
	wd := &stubFetcher{name: domain.SourceWorkday, jobs: map[string][]domain.Job{
		"leidos": {
			job(domain.SourceWorkday, "W1", "https://leidos.wd5.myworkdayjobs.com/External/job/1"),
			job(domain.SourceWorkday, "W2", "https://leidos.wd5.myworkdayjobs.com/External/job/2"),
		},
	}}

	c := NewCollector(2*time.Second, 4, lv, gh, wd)
	jobs, counts := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceLever:      {"acme", "globex"},
		domain.SourceGreenhouse: {"initech"},
		domain.SourceWorkday:    {"leidos"},
	}})

	// slowest source still lands first in the merge
	assert.Equal(t, []string{"L1", "L2", "G1", "W1", "W2"}, titles(jobs))
	require.Len(t, counts, 4)
	assert.Equal(t, SourceCount{Source: domain.SourceLever, Board: "acme", Count: 1}, counts[0])
	assert.Equal(t, SourceCount{Source: domain.SourceWorkday, Board: "leidos", Count: 2}, counts[3])
}

func TestCollect_FailingBoardDoesNotAbortSearch(t *testing.T) {
	lv := &stubFetcher{name: domain.SourceLever, err: errors.New("lever status 503")}
	gh := &stubFetcher{name: domain.SourceGreenhouse, jobs: map[string][]domain.Job{
		"initech": {job(domain.SourceGreenhouse, "G1", "https://boards.greenhouse.io/initech/1")},
	}}

	c := NewCollector(2*time.Second, 4, lv, gh)
	jobs, counts := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceLever:      {"acme"},
		domain.SourceGreenhouse: {"initech"},
	}})

	assert.Equal(t, []string{"G1"}, titles(jobs))
	require.Len(t, counts, 2)
	assert.Equal(t, 0, counts[0].Count)
	assert.Equal(t, 1, counts[1].Count)
}

func TestCollect_InvalidTokenContributesNothing(t *testing.T) {
	lv := &stubFetcher{name: domain.SourceLever, err: errors.Wrap(types.ErrInvalidBoardToken, "lever board \"Bad Board\"")}

	c := NewCollector(2*time.Second, 4, lv)
	jobs, counts := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceLever: {"Bad Board"},
	}})

	assert.Empty(t, jobs)
	require.Len(t, counts, 1)
	assert.Equal(t, 0, counts[0].Count)
}

func TestCollect_UnregisteredSourceSkipped(t *testing.T) {
	gh := &stubFetcher{name: domain.SourceGreenhouse, jobs: map[string][]domain.Job{
		"initech": {job(domain.SourceGreenhouse, "G1", "https://boards.greenhouse.io/initech/1")},
	}}

	c := NewCollector(2*time.Second, 4, gh)
	jobs, counts := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceGreenhouse: {"initech"},
		domain.SourceWorkday:    {"leidos"},
	}})

	assert.Equal(t, []string{"G1"}, titles(jobs))
	assert.Len(t, counts, 1)
}

func TestCollect_BlankBoardNamesNeverFetched(t *testing.T) {
	lv := &stubFetcher{name: domain.SourceLever, jobs: map[string][]domain.Job{
		"acme": {job(domain.SourceLever, "L1", "https://jobs.lever.co/acme/1")},
	}}

	c := NewCollector(2*time.Second, 4, lv)
	jobs, _ := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceLever: {"", "  ", "acme"},
	}})

	assert.Equal(t, []string{"L1"}, titles(jobs))
	assert.Equal(t, []string{"acme"}, lv.boards)
}

func TestCollect_SharedURLKeepsFirstSource(t *testing.T) {
	shared := "https://example.com/jobs/42"
	lv := &stubFetcher{name: domain.SourceLever, jobs: map[string][]domain.Job{
		"acme": {job(domain.SourceLever, "From Lever", shared)},
	}}
	gh := &stubFetcher{name: domain.SourceGreenhouse, jobs: map[string][]domain.Job{
		"acme": {job(domain.SourceGreenhouse, "From Greenhouse", shared)},
	}}

	c := NewCollector(2*time.Second, 4, lv, gh)
	jobs, _ := c.Collect(context.Background(), Request{Boards: map[string][]string{
		domain.SourceLever:      {"acme"},
		domain.SourceGreenhouse: {"acme"},
	}})

	require.Len(t, jobs, 1)
	assert.Equal(t, domain.SourceLever, jobs[0].Source)
}

func TestCollect_PassesWorkdayKnobs(t *testing.T) {
	wd := &stubFetcher{name: domain.SourceWorkday}

	c := NewCollector(2*time.Second, 4, wd)
	c.Collect(context.Background(), Request{
		Boards:     map[string][]string{domain.SourceWorkday: {"leidos|External|wd5"}},
		SearchText: "cyber engineer",
		PageLimit:  25,
		MaxPages:   3,
	})

	assert.Equal(t, "leidos|External|wd5", wd.lastReq.Board)
	assert.Equal(t, "cyber engineer", wd.lastReq.SearchText)
	assert.Equal(t, 25, wd.lastReq.PageLimit)
	assert.Equal(t, 3, wd.lastReq.MaxPages)
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	in := []domain.Job{
		job(domain.SourceLever, "first", "https://example.com/a"),
		job(domain.SourceGreenhouse, "dup", "https://example.com/a"),
		job(domain.SourceLever, "other", "https://example.com/b"),
	}
	out := Dedupe(in)
	assert.Equal(t, []string{"first", "other"}, titles(out))
}

func TestDedupe_EmptyURLsAlwaysRetained(t *testing.T) {
	in := []domain.Job{
		job(domain.SourceWorkday, "a", ""),
		job(domain.SourceWorkday, "b", ""),
		job(domain.SourceWorkday, "c", ""),
	}
	out := Dedupe(in)
	assert.Len(t, out, 3)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []domain.Job{
		job(domain.SourceLever, "a", "https://example.com/a"),
		job(domain.SourceLever, "a2", "https://example.com/a"),
		job(domain.SourceWorkday, "blank", ""),
		job(domain.SourceWorkday, "blank2", ""),
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}
