package flow

import (
	"skyride/internal/modules/booking"
	"skyride/internal/modules/location"
	"skyride/internal/modules/pricing"
	"skyride/internal/modules/tier"
	"skyride/internal/types"
)

// View is a copy of the session state for rendering. Derived fields are
// nil until their inputs are present.
type View struct {
	Step                   Step                   `json:"step"`
	Pickup                 *location.Location     `json:"pickup"`
	Destination            *location.Location     `json:"destination"`
	Tiers                  []tier.Tier            `json:"tiers"`
	SelectedTier           *tier.Tier             `json:"selected_tier"`
	DistanceKm             *float64               `json:"distance_km"`
	EstimatedFare          *float64               `json:"estimated_fare"`
	EstimatedFareDisplay   string                 `json:"estimated_fare_display,omitempty"`
	EstimatedTravelMinutes *int                   `json:"estimated_travel_minutes"`
	ActiveBooking          *booking.Booking       `json:"active_booking"`
	ActiveStatus           *booking.StatusDisplay `json:"active_status"`
	ActiveFareDisplay      string                 `json:"active_fare_display,omitempty"`
	RecentBookings         []booking.Booking      `json:"recent_bookings"`
	IsSubmitting           bool                   `json:"is_submitting"`
	FeedbackOpen           bool                   `json:"feedback_open"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Step:           c.step,
		Tiers:          append([]tier.Tier{}, c.tiers...),
		RecentBookings: append([]booking.Booking{}, c.recent...),
		IsSubmitting:   c.submitting || c.feedbackSubmitting,
		FeedbackOpen:   c.feedbackOpen,
	}
	if c.pickup != nil {
		p := *c.pickup
		v.Pickup = &p
	}
	if c.destination != nil {
		d := *c.destination
		v.Destination = &d
	}
	if c.selected != nil {
		t := *c.selected
		v.SelectedTier = &t
	}
	if v.Pickup != nil && v.Destination != nil {
		d := location.Distance(*v.Pickup, *v.Destination)
		minutes := pricing.TravelMinutes(d)
		v.DistanceKm = &d
		v.EstimatedTravelMinutes = &minutes
		if v.SelectedTier != nil {
			fare := pricing.Fare(v.SelectedTier.Rate(), d)
			v.EstimatedFare = &fare
			v.EstimatedFareDisplay = types.NewMoney(fare).Display()
		}
	}
	if c.active != nil {
		b := *c.active
		status := b.Status.Display()
		v.ActiveBooking = &b
		v.ActiveStatus = &status
		v.ActiveFareDisplay = b.DisplayFare().Display()
	}
	return v
}
