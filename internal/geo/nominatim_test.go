package geo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func geoResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestNominatim() (*Nominatim, *mockHTTPClient) {
	n := NewNominatim("", "us", "isdjobs/1.0", gocache.New(time.Minute, 2*time.Minute))
	mc := &mockHTTPClient{}
	n.SetHTTPClient(mc)
	return n, mc
}

func TestZip_ResolvesAndCaches(t *testing.T) {
	n, mc := newTestNominatim()
	mc.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		q := r.URL.Query()
		return r.URL.Host == "nominatim.openstreetmap.org" &&
			q.Get("postalcode") == "20755" &&
			q.Get("countrycodes") == "us" &&
			q.Get("format") == "json" &&
			q.Get("limit") == "1"
	})).Return(geoResponse(`[{"lat":"39.1031","lon":"-76.7482"}]`), nil).Once()

	pt, ok := n.Zip(context.Background(), "20755")
	require.True(t, ok)
	assert.InDelta(t, 39.1031, pt.Lat, 0.0001)
	assert.InDelta(t, -76.7482, pt.Lon, 0.0001)

	pt2, ok2 := n.Zip(context.Background(), "20755")
	assert.True(t, ok2)
	assert.Equal(t, pt, pt2)
	mc.AssertNumberOfCalls(t, "Do", 1)
}

func TestLocation_QueriesFreeText(t *testing.T) {
	n, mc := newTestNominatim()
	mc.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.URL.Query().Get("q") == "Annapolis Junction, MD"
	})).Return(geoResponse(`[{"lat":"39.1204","lon":"-76.7780"}]`), nil).Once()

	_, ok := n.Location(context.Background(), "  Annapolis Junction, MD ")
	assert.True(t, ok)
}

func TestLocation_MissIsCached(t *testing.T) {
	n, mc := newTestNominatim()
	mc.On("Do", mock.Anything).Return(geoResponse(`[]`), nil).Once()

	_, ok := n.Location(context.Background(), "Nowhereville")
	assert.False(t, ok)
	_, ok = n.Location(context.Background(), "nowhereville")
	assert.False(t, ok)
	// case-insensitive key, one upstream call
	mc.AssertNumberOfCalls(t, "Do", 1)
}

func TestLocation_ServerErrorNotCached(t *testing.T) {
	n, mc := newTestNominatim()
	mc.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 503,
		Body:       io.NopCloser(bytes.NewBufferString("overloaded")),
	}, nil).Once()
	mc.On("Do", mock.Anything).Return(geoResponse(`[{"lat":"39.0","lon":"-77.0"}]`), nil).Once()

	_, ok := n.Location(context.Background(), "Reston, VA")
	assert.False(t, ok)
	// the failure is retried on the next lookup rather than served from cache
	_, ok = n.Location(context.Background(), "Reston, VA")
	assert.True(t, ok)
	mc.AssertNumberOfCalls(t, "Do", 2)
}

func TestEmptyInputsNeverHitNetwork(t *testing.T) {
	n, mc := newTestNominatim()

	_, ok := n.Zip(context.Background(), "  ")
	assert.False(t, ok)
	_, ok = n.Location(context.Background(), "")
	assert.False(t, ok)
	mc.AssertNotCalled(t, "Do", mock.Anything)
}

func TestUnparsableCoordinatesAreAMiss(t *testing.T) {
	n, mc := newTestNominatim()
	mc.On("Do", mock.Anything).Return(geoResponse(`[{"lat":"north","lon":"west"}]`), nil).Once()

	_, ok := n.Location(context.Background(), "Fort Meade, MD")
	assert.False(t, ok)
}
