// README: Pure fare, travel-time, and pickup-window calculators.
package pricing

import (
	"math"
	"time"
)

const (
	// averageSpeedKmPerMin is a fixed cruise-speed placeholder (180 km/h).
	averageSpeedKmPerMin = 3.0
	// PickupWindowLength is the width of the quoted pickup interval.
	PickupWindowLength = 5 * time.Minute
)

// Fare returns base + perKm × distance, unrounded.
func Fare(r Rate, distanceKm float64) float64 {
	return r.BaseFare + r.PerKmRate*distanceKm
}

// TravelMinutes returns ceil(distance / 3 × 60).
func TravelMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm / averageSpeedKmPerMin * 60))
}

// PickupWindow returns [now+arrival, now+arrival+5m].
func PickupWindow(now time.Time, arrivalMinutes int) (time.Time, time.Time) {
	start := now.Add(time.Duration(arrivalMinutes) * time.Minute)
	return start, start.Add(PickupWindowLength)
}

// NewEstimate combines the three calculators for one quote.
func NewEstimate(r Rate, distanceKm float64, now time.Time) Estimate {
	start, end := PickupWindow(now, r.ArrivalMinutes)
	return Estimate{
		DistanceKm:    distanceKm,
		Fare:          Fare(r, distanceKm),
		TravelMinutes: TravelMinutes(distanceKm),
		PickupStart:   start,
		PickupEnd:     end,
	}
}
