// README: Google Places text search used to extend location suggestions.
package location

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// serviceCenter biases Places results toward the Bengaluru service area.
var serviceCenter = maps.LatLng{Lat: 12.9716, Lng: 77.5946}

const (
	serviceRadiusMeters = 50000
	maxPlaceResults     = 5
)

// PlacesSearcher resolves free-text queries into locations with Google Places.
type PlacesSearcher struct {
	client *maps.Client
}

// NewPlacesSearcher creates a PlacesSearcher with the given API key.
func NewPlacesSearcher(apiKey string) (*PlacesSearcher, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesSearcher{client: client}, nil
}

// Search runs a text search near the service area and returns at most
// maxPlaceResults locations.
func (s *PlacesSearcher) Search(ctx context.Context, query string) ([]Location, error) {
	r := &maps.TextSearchRequest{
		Query:    query,
		Location: &serviceCenter,
		Radius:   serviceRadiusMeters,
		Region:   "in",
	}
	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	return placesToLocations(resp.Results), nil
}

func placesToLocations(results []maps.PlacesSearchResult) []Location {
	var out []Location
	for _, result := range results {
		addr := result.Name
		if addr == "" {
			addr = result.FormattedAddress
		}
		if addr == "" {
			continue
		}
		out = append(out, Location{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
			Address:   addr,
		})
		if len(out) >= maxPlaceResults {
			break
		}
	}
	return out
}
