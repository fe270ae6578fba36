// README: Pricing inputs and the estimate derived from them.
package pricing

import "time"

// Rate is the per-tier fare formula.
type Rate struct {
	BaseFare       float64
	PerKmRate      float64
	ArrivalMinutes int
}

// Estimate bundles everything a booking quotes before confirmation.
type Estimate struct {
	DistanceKm    float64
	Fare          float64
	TravelMinutes int
	PickupStart   time.Time
	PickupEnd     time.Time
}
