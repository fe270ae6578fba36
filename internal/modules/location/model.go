// README: Location chosen by the user for pickup or destination.
package location

import "skyride/internal/types"

// Location is immutable once chosen; it lives only in session state and
// inside the booking row that copies it.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func (l Location) Point() types.Point {
	return types.Point{Lat: l.Latitude, Lng: l.Longitude}
}

func (l Location) Valid() bool {
	return l.Point().Valid()
}
