package store

import (
	"sort"
	"sync"
	"time"

	"isdjobs-api/internal/domain"

	"github.com/pkg/errors"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmarks is the process-lifetime bookmark map, keyed by job URL. Writes
// are last-write-wins per key and nothing is ever deleted.
type Bookmarks struct {
	mu sync.RWMutex
	m  map[string]domain.Bookmark
}

func NewBookmarks() *Bookmarks {
	return &Bookmarks{m: make(map[string]domain.Bookmark)}
}

// Upsert creates or wholesale overwrites the bookmark for url, stamping the
// current UTC time.
func (b *Bookmarks) Upsert(url, status, notes string) domain.Bookmark {
	bm := domain.Bookmark{
		URL:       url,
		Status:    status,
		Notes:     notes,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.mu.Lock()
	b.m[url] = bm
	b.mu.Unlock()
	return bm
}

// Update rewrites status and notes on an existing bookmark.
func (b *Bookmarks) Update(url, status, notes string) (domain.Bookmark, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bm, ok := b.m[url]
	if !ok {
		return domain.Bookmark{}, errors.Wrapf(ErrBookmarkNotFound, "url %q", url)
	}
	bm.Status = status
	bm.Notes = notes
	bm.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	b.m[url] = bm
	return bm, nil
}

// List returns every bookmark, most recently updated first. Ties break on
// URL so the order is deterministic.
func (b *Bookmarks) List() []domain.Bookmark {
	b.mu.RLock()
	out := make([]domain.Bookmark, 0, len(b.m))
	for _, bm := range b.m {
		out = append(out, bm)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].URL < out[j].URL
	})
	return out
}
