// README: Built-in Bengaluru landmark catalog used for location suggestions.
package location

import "strings"

var sampleLocations = []Location{
	{Address: "MG Road", Latitude: 12.9762, Longitude: 77.6033},
	{Address: "Whitefield", Latitude: 12.9698, Longitude: 77.7499},
	{Address: "Electronic City", Latitude: 12.8456, Longitude: 77.6603},
	{Address: "Koramangala", Latitude: 12.9352, Longitude: 77.6245},
	{Address: "Indiranagar", Latitude: 12.9719, Longitude: 77.6412},
	{Address: "HSR Layout", Latitude: 12.9082, Longitude: 77.6476},
	{Address: "Bellandur", Latitude: 12.9259, Longitude: 77.6745},
	{Address: "Yeshwanthpur", Latitude: 13.0281, Longitude: 77.5538},
	{Address: "BTM Layout", Latitude: 12.9165, Longitude: 77.6101},
	{Address: "JP Nagar", Latitude: 12.9082, Longitude: 77.5850},
}

// SampleLocations returns a copy of the catalog.
func SampleLocations() []Location {
	out := make([]Location, len(sampleLocations))
	copy(out, sampleLocations)
	return out
}

// filterCatalog returns catalog entries whose name contains query,
// case-insensitively. An empty query matches nothing.
func filterCatalog(query string) []Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Location
	for _, loc := range sampleLocations {
		if strings.Contains(strings.ToLower(loc.Address), q) {
			out = append(out, loc)
		}
	}
	return out
}
