// README: Taxi tier definitions (service classes with their own fare formula).
package tier

import (
	"sort"

	"skyride/internal/modules/pricing"
	"skyride/internal/types"
)

type Tier struct {
	ID                      types.ID `json:"id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	MaxPassengers           int      `json:"max_passengers"`
	BaseFare                float64  `json:"base_fare"`
	PerKmRate               float64  `json:"per_km_rate"`
	EstimatedArrivalMinutes int      `json:"estimated_arrival_minutes"`
	IsActive                bool     `json:"is_active"`
	DisplayOrder            int      `json:"display_order"`
}

func (t Tier) Rate() pricing.Rate {
	return pricing.Rate{
		BaseFare:       t.BaseFare,
		PerKmRate:      t.PerKmRate,
		ArrivalMinutes: t.EstimatedArrivalMinutes,
	}
}

// ActiveSorted keeps active tiers and orders them by DisplayOrder; ties keep
// their input order.
func ActiveSorted(tiers []Tier) []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.IsActive {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// Find returns the tier with the given id.
func Find(tiers []Tier, id types.ID) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}
