package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"isdjobs-api/internal/domain"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert_StampsUTCTime(t *testing.T) {
	b := NewBookmarks()

	bm := b.Upsert("https://example.com/jobs/1", "applied", "phone screen friday")
	assert.Equal(t, "https://example.com/jobs/1", bm.URL)
	assert.Equal(t, "applied", bm.Status)
	assert.Equal(t, "phone screen friday", bm.Notes)

	ts, err := time.Parse(time.RFC3339, bm.UpdatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}

func TestUpsert_OverwritesWholesale(t *testing.T) {
	b := NewBookmarks()
	b.Upsert("https://example.com/jobs/1", "applied", "old notes")

	bm := b.Upsert("https://example.com/jobs/1", "rejected", "")
	assert.Equal(t, "rejected", bm.Status)
	assert.Equal(t, "", bm.Notes)
	assert.Len(t, b.List(), 1)
}

func TestUpdate_MissingURL(t *testing.T) {
	b := NewBookmarks()

	_, err := b.Update("https://example.com/jobs/404", "applied", "")
	assert.True(t, errors.Is(err, ErrBookmarkNotFound))
}

func TestUpdate_RewritesFields(t *testing.T) {
	b := NewBookmarks()
	b.Upsert("https://example.com/jobs/1", "saved", "looks promising")

	bm, err := b.Update("https://example.com/jobs/1", "applied", "submitted resume")
	require.NoError(t, err)
	assert.Equal(t, "applied", bm.Status)
	assert.Equal(t, "submitted resume", bm.Notes)
	assert.NotEmpty(t, bm.UpdatedAt)
}

func TestList_MostRecentFirst(t *testing.T) {
	b := NewBookmarks()
	b.m["u1"] = domain.Bookmark{URL: "u1", UpdatedAt: "2024-01-01T00:00:00Z"}
	b.m["u2"] = domain.Bookmark{URL: "u2", UpdatedAt: "2024-03-01T00:00:00Z"}
	b.m["u3"] = domain.Bookmark{URL: "u3", UpdatedAt: "2024-02-01T00:00:00Z"}

	got := b.List()
	require.Len(t, got, 3)
	assert.Equal(t, "u2", got[0].URL)
	assert.Equal(t, "u3", got[1].URL)
	assert.Equal(t, "u1", got[2].URL)
}

func TestList_TiesBreakOnURL(t *testing.T) {
	b := NewBookmarks()
	b.m["zz"] = domain.Bookmark{URL: "zz", UpdatedAt: "2024-01-01T00:00:00Z"}
	b.m["aa"] = domain.Bookmark{URL: "aa", UpdatedAt: "2024-01-01T00:00:00Z"}

	got := b.List()
	require.Len(t, got, 2)
	assert.Equal(t, "aa", got[0].URL)
	assert.Equal(t, "zz", got[1].URL)
}

func TestConcurrentUpserts(t *testing.T) {
	b := NewBookmarks()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Upsert(fmt.Sprintf("https://example.com/jobs/%d", i%4), "saved", "")
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.List(), 4)
}
