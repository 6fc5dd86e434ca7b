package scrape

import (
	"context"
	"strings"
	"time"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/logger"
	"isdjobs-api/internal/metrics"
	"isdjobs-api/internal/scrape/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Collector fans a search out to the registered source adapters and merges
// their batches in a fixed source-then-board order, so the merged slice does
// not depend on which fetch finished first.
type Collector struct {
	fetchers map[string]types.Fetcher
	timeout  time.Duration
	limit    int
}

func NewCollector(timeout time.Duration, maxConcurrent int, fetchers ...types.Fetcher) *Collector {
	m := make(map[string]types.Fetcher, len(fetchers))
	for _, f := range fetchers {
		m[f.Name()] = f
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Collector{fetchers: m, timeout: timeout, limit: maxConcurrent}
}

// Request names the boards to query per source plus the Workday paging knobs.
type Request struct {
	Boards     map[string][]string
	SearchText string
	PageLimit  int
	MaxPages   int
}

// SourceCount reports how many records one board contributed before
// de-duplication.
type SourceCount struct {
	Source string `json:"source"`
	Board  string `json:"board"`
	Count  int    `json:"count"`
}

// Collect runs every (source, board) fetch and returns the de-duplicated
// merge. A failing board logs and contributes nothing; it never aborts the
// search.
func (c *Collector) Collect(ctx context.Context, req Request) ([]domain.Job, []SourceCount) {
	type task struct {
		source string
		board  string
		f      types.Fetcher
	}
	var tasks []task
	for _, source := range domain.SourceOrder {
		f, ok := c.fetchers[source]
		if !ok {
			if n := len(req.Boards[source]); n > 0 {
				log.Warnf("[collect] source %q not enabled; skipping %d boards", source, n)
			}
			continue
		}
		for _, board := range req.Boards[source] {
			board = strings.TrimSpace(board)
			if board == "" {
				continue
			}
			tasks = append(tasks, task{source: source, board: board, f: f})
		}
	}

	batches := make([][]domain.Job, len(tasks))

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i, tk := range tasks {
		i, tk := i, tk
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := time.Now()
			jobs, err := tk.f.Fetch(fctx, types.FetchRequest{
				Board:      tk.board,
				SearchText: req.SearchText,
				PageLimit:  req.PageLimit,
				MaxPages:   req.MaxPages,
			})
			metrics.FetchDuration.WithLabelValues(tk.source).Observe(time.Since(start).Seconds())
			if err != nil {
				if errors.Is(err, types.ErrInvalidBoardToken) {
					log.Warnf("[ats:%s] board %q rejected: %v", tk.source, tk.board, err)
					return nil
				}
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
					Errorf("[ats:%s] board %q fetch: %v", tk.source, tk.board, err)
				return nil // best-effort: siblings keep running
			}
			batches[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Job
	counts := make([]SourceCount, 0, len(tasks))
	for i, tk := range tasks {
		merged = append(merged, batches[i]...)
		counts = append(counts, SourceCount{Source: tk.source, Board: tk.board, Count: len(batches[i])})
	}

	unique := Dedupe(merged)
	log.Debugf("[collect] boards=%d merged=%d unique=%d", len(tasks), len(merged), len(unique))
	return unique, counts
}

// Dedupe drops records whose URL was already seen, keeping first-seen order.
// Records with an empty URL carry no identity and are always kept.
func Dedupe(jobs []domain.Job) []domain.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.URL == "" {
			out = append(out, j)
			continue
		}
		if _, dup := seen[j.URL]; dup {
			continue
		}
		seen[j.URL] = struct{}{}
		out = append(out, j)
	}
	return out
}
