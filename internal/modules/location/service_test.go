package location

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"googlemaps.github.io/maps"

	"skyride/internal/logging"
)

type stubSearcher struct {
	results []Location
	err     error
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string) ([]Location, error) {
	s.calls++
	return s.results, s.err
}

func addresses(locs []Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.Address
	}
	return out
}

func TestSuggest_CatalogOnly(t *testing.T) {
	svc := NewService(nil, logging.Discard())

	tests := []struct {
		query string
		want  []string
	}{
		{"layout", []string{"HSR Layout", "BTM Layout"}},
		{"MG", []string{"MG Road"}},
		{"  nagar ", []string{"Indiranagar", "JP Nagar"}},
		{"", nil},
		{"airport", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := svc.Suggest(context.Background(), tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, addresses(got))
		})
	}
}

func TestSuggest_MergesExternalResultsWithoutDuplicates(t *testing.T) {
	searcher := &stubSearcher{results: []Location{
		{Address: "whitefield", Latitude: 12.97, Longitude: 77.75},
		{Address: "Whitefield Railway Station", Latitude: 12.9958, Longitude: 77.7600},
		{Address: "Broken", Latitude: 200, Longitude: 0},
	}}
	svc := NewService(searcher, logging.Discard())

	got := svc.Suggest(context.Background(), "whitefield")

	assert.Equal(t, []string{"Whitefield", "Whitefield Railway Station"}, addresses(got))
	assert.Equal(t, 1, searcher.calls)
}

func TestSuggest_ExternalFailureFallsBackToCatalog(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("quota exceeded")}
	svc := NewService(searcher, logging.Discard())

	got := svc.Suggest(context.Background(), "kora")

	assert.Equal(t, []string{"Koramangala"}, addresses(got))
}

func TestSuggest_EmptyQuerySkipsExternal(t *testing.T) {
	searcher := &stubSearcher{}
	svc := NewService(searcher, logging.Discard())

	svc.Suggest(context.Background(), "   ")

	assert.Zero(t, searcher.calls)
}

func TestPlacesToLocations(t *testing.T) {
	results := []maps.PlacesSearchResult{
		{Name: "Cubbon Park", Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 12.9763, Lng: 77.5929}}},
		{FormattedAddress: "Lalbagh, Bengaluru", Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 12.9507, Lng: 77.5848}}},
		{},
	}

	got := placesToLocations(results)

	assert.Equal(t, []Location{
		{Address: "Cubbon Park", Latitude: 12.9763, Longitude: 77.5929},
		{Address: "Lalbagh, Bengaluru", Latitude: 12.9507, Longitude: 77.5848},
	}, got)
}
