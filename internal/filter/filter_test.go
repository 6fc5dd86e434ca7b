package filter

import (
	"context"
	"testing"

	"isdjobs-api/internal/domain"
	"isdjobs-api/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeo struct {
	zips map[string]geo.Point
	locs map[string]geo.Point
}

func (f fakeGeo) Zip(_ context.Context, z string) (geo.Point, bool) {
	p, ok := f.zips[z]
	return p, ok
}

func (f fakeGeo) Location(_ context.Context, l string) (geo.Point, bool) {
	p, ok := f.locs[l]
	return p, ok
}

func fp(v float64) *float64 { return &v }

func names(jobs []domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}

func TestApply_KeywordsMatchTitleAndDepartment(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Software Engineer", Company: "acme"},
		{Title: "Analyst", Department: "Engineering", Company: "acme"},
		{Title: "Accountant", Department: "Finance", Company: "acme"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{Keywords: []string{"ENGINEER"}, IncludeRemote: true})
	assert.ElementsMatch(t, []string{"Software Engineer", "Analyst"}, names(kept))
}

func TestApply_EmptyKeywordsMatchEverything(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Software Engineer"},
		{Title: "Accountant"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{Keywords: []string{"", "  "}, IncludeRemote: true})
	assert.Len(t, kept, 2)
}

func TestApply_ClearanceRequired(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Network Engineer", ContentHTML: "<p>Active Secret clearance required.</p>"},
		{Title: "Web Developer", ContentHTML: "<p>Great team culture.</p>"},
		{Title: "SOC Analyst", Location: "Fort Meade, MD (TS/SCI)"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{
		RequireClearance: true,
		Clearances:       []string{"secret"},
		IncludeRemote:    true,
	})
	assert.ElementsMatch(t, []string{"Network Engineer"}, names(kept))
}

func TestApply_ClearanceDefaultVocabulary(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Systems Administrator", ContentHTML: "<p>Must hold an active Public Trust.</p>"},
		{Title: "Help Desk", ContentHTML: "<p>Entry level role.</p>"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{RequireClearance: true, IncludeRemote: true})
	assert.ElementsMatch(t, []string{"Systems Administrator"}, names(kept))
}

func TestApply_ClearanceNotRequiredPassesAll(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Network Engineer", ContentHTML: "<p>Active Secret clearance required.</p>"},
		{Title: "Web Developer"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{Clearances: []string{"secret"}, IncludeRemote: true})
	assert.Len(t, kept, 2)
}

func TestApply_RemoteAndRadius(t *testing.T) {
	g := fakeGeo{
		zips: map[string]geo.Point{"20755": {Lat: 39.1031, Lon: -76.7482}},
		locs: map[string]geo.Point{
			"Annapolis Junction, MD": {Lat: 39.1204, Lon: -76.7780},
			"Denver, CO":             {Lat: 39.7392, Lon: -104.9903},
		},
	}
	e := NewEngine(g)
	jobs := []domain.Job{
		{Title: "Remote Dev", Remote: true},
		{Title: "Nearby Admin", Location: "Annapolis Junction, MD"},
		{Title: "Far Analyst", Location: "Denver, CO"},
		{Title: "Mystery Site", Location: "Undisclosed"},
		{Title: "No Location"},
	}

	kept, out := e.Apply(context.Background(), jobs, Params{
		Zip:           "20755",
		RadiusMiles:   25,
		IncludeRemote: true,
	})
	assert.True(t, out.RadiusApplied)
	require.NotNil(t, out.Origin)
	assert.ElementsMatch(t, []string{"Remote Dev", "Nearby Admin"}, names(kept))
}

func TestApply_GeocodeFailureDisablesRadius(t *testing.T) {
	e := NewEngine(fakeGeo{})
	jobs := []domain.Job{
		{Title: "Far Analyst", Location: "Denver, CO"},
		{Title: "No Location"},
	}

	kept, out := e.Apply(context.Background(), jobs, Params{
		Zip:           "99999",
		RadiusMiles:   25,
		IncludeRemote: true,
	})
	assert.False(t, out.RadiusApplied)
	assert.Nil(t, out.Origin)
	assert.Len(t, kept, 2)
}

func TestApply_ExplicitCoordinatesWinOverZip(t *testing.T) {
	g := fakeGeo{locs: map[string]geo.Point{
		"Annapolis Junction, MD": {Lat: 39.1204, Lon: -76.7780},
	}}
	e := NewEngine(g)
	jobs := []domain.Job{
		{Title: "Nearby Admin", Location: "Annapolis Junction, MD"},
	}

	kept, out := e.Apply(context.Background(), jobs, Params{
		Zip:         "99999", // unresolvable, must not matter
		Lat:         fp(39.1031),
		Lon:         fp(-76.7482),
		RadiusMiles: 25,
	})
	assert.True(t, out.RadiusApplied)
	require.NotNil(t, out.Origin)
	assert.InDelta(t, 39.1031, out.Origin.Lat, 0.0001)
	assert.Equal(t, []string{"Nearby Admin"}, names(kept))
}

func TestApply_RemoteLegClosedWhenNotIncluded(t *testing.T) {
	g := fakeGeo{zips: map[string]geo.Point{"20755": {Lat: 39.1031, Lon: -76.7482}}}
	e := NewEngine(g)
	jobs := []domain.Job{
		{Title: "Remote Dev", Remote: true},
	}

	// radius active and remote not allowed: the job has no location leg left
	kept, _ := e.Apply(context.Background(), jobs, Params{
		Zip:           "20755",
		RadiusMiles:   25,
		IncludeRemote: false,
	})
	assert.Empty(t, kept)

	// with radius off the same job passes
	kept, _ = e.Apply(context.Background(), jobs, Params{IncludeRemote: false})
	assert.Len(t, kept, 1)
}

func TestApply_PayTypes(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Hourly Tech", PayType: "hourly", CompMin: fp(45760)},
		{Title: "Salaried Eng", PayType: "salary", CompMin: fp(120000)},
		{Title: "Unknown Pay"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{PayTypes: []string{"Hourly"}, IncludeRemote: true})
	assert.ElementsMatch(t, []string{"Hourly Tech", "Unknown Pay"}, names(kept))
}

func TestApply_SalaryOverlap(t *testing.T) {
	e := NewEngine(geo.Noop{})
	cases := []struct {
		name string
		job  domain.Job
		min  *float64
		max  *float64
		keep bool
	}{
		{"below floor, missing max treated as min", domain.Job{CompMin: fp(90000)}, fp(100000), fp(200000), false},
		{"range overlaps floor", domain.Job{CompMin: fp(90000), CompMax: fp(110000)}, fp(100000), fp(200000), true},
		{"above ceiling", domain.Job{CompMin: fp(250000), CompMax: fp(300000)}, fp(100000), fp(200000), false},
		{"fully inside", domain.Job{CompMin: fp(120000), CompMax: fp(150000)}, fp(100000), fp(200000), true},
		{"unknown comp always passes", domain.Job{}, fp(100000), fp(200000), true},
		{"floor only", domain.Job{CompMin: fp(90000)}, fp(100000), nil, false},
		{"ceiling only", domain.Job{CompMin: fp(90000)}, nil, fp(200000), true},
		{"no bounds configured", domain.Job{CompMin: fp(90000)}, nil, nil, true},
	}
	for _, tc := range cases {
		kept, _ := e.Apply(context.Background(), []domain.Job{tc.job}, Params{
			SalaryMin:     tc.min,
			SalaryMax:     tc.max,
			IncludeRemote: true,
		})
		assert.Equal(t, tc.keep, len(kept) == 1, tc.name)
	}
}

func TestApply_ReturnsRankedResults(t *testing.T) {
	e := NewEngine(geo.Noop{})
	jobs := []domain.Job{
		{Title: "Low", Company: "acme", CompMin: fp(80000)},
		{Title: "High", Company: "acme", CompMin: fp(160000)},
		{Title: "None", Company: "acme"},
	}

	kept, _ := e.Apply(context.Background(), jobs, Params{IncludeRemote: true})
	assert.Equal(t, []string{"High", "Low", "None"}, names(kept))
}
