// README: Booking aggregate and status definitions.
package booking

import (
	"time"

	"skyride/internal/modules/location"
	"skyride/internal/types"
)

type Status string

const (
	StatusSearching Status = "searching"
	StatusAssigned  Status = "assigned"
	StatusEnRoute   Status = "en_route"
	StatusArriving  Status = "arriving"
	StatusInFlight  Status = "in_flight"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const DefaultPaymentStatus = "pending"

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusSearching, StatusAssigned, StatusEnRoute, StatusArriving,
	StatusInFlight, StatusCompleted, StatusCancelled,
}

type Booking struct {
	ID                     types.ID          `json:"id"`
	BookingCode            string            `json:"booking_id"`
	TierID                 types.ID          `json:"tier_id"`
	TierName               string            `json:"tier_name"`
	Pickup                 location.Location `json:"pickup"`
	Destination            location.Location `json:"destination"`
	DistanceKm             float64           `json:"distance_km"`
	EstimatedFare          float64           `json:"estimated_fare"`
	FinalFare              *float64          `json:"final_fare"`
	EstimatedTravelMinutes int               `json:"estimated_travel_minutes"`
	PickupTimeStart        *time.Time        `json:"pickup_time_start"`
	PickupTimeEnd          *time.Time        `json:"pickup_time_end"`
	Status                 Status            `json:"status"`
	PaymentStatus          string            `json:"payment_status"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
	CancelledAt            *time.Time        `json:"cancelled_at"`
	CompletedAt            *time.Time        `json:"completed_at"`
}

// Draft is the client-supplied part of a new booking row; the gateway fills
// in id, timestamps, status and payment status.
type Draft struct {
	BookingCode            string
	TierID                 types.ID
	Pickup                 location.Location
	Destination            location.Location
	DistanceKm             float64
	EstimatedFare          float64
	EstimatedTravelMinutes int
	PickupTimeStart        time.Time
	PickupTimeEnd          time.Time
}

// DisplayFare is the final fare once known, otherwise the estimate.
func (b Booking) DisplayFare() types.Money {
	if b.FinalFare != nil {
		return types.NewMoney(*b.FinalFare)
	}
	return types.NewMoney(b.EstimatedFare)
}

// StatusDisplay is the presentation label for a status.
type StatusDisplay struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Display returns the label and description for s. Unknown statuses render
// as searching.
func (s Status) Display() StatusDisplay {
	switch s {
	case StatusSearching:
		return StatusDisplay{"Searching", "Finding the nearest available taxi"}
	case StatusAssigned:
		return StatusDisplay{"Assigned", "Taxi has been assigned to your booking"}
	case StatusEnRoute:
		return StatusDisplay{"En Route", "Taxi is on the way to your pickup location"}
	case StatusArriving:
		return StatusDisplay{"Arriving", "Taxi will arrive in a few minutes"}
	case StatusInFlight:
		return StatusDisplay{"In Flight", "Your journey is in progress"}
	case StatusCompleted:
		return StatusDisplay{"Completed", "Journey completed successfully"}
	case StatusCancelled:
		return StatusDisplay{"Cancelled", "Booking has been cancelled"}
	}
	return StatusSearching.Display()
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AllowedTransitions represents the booking lifecycle as code.
var AllowedTransitions = map[Status][]Status{
	StatusSearching: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusEnRoute, StatusCancelled},
	StatusEnRoute:   {StatusArriving, StatusCancelled},
	StatusArriving:  {StatusInFlight, StatusCancelled},
	StatusInFlight:  {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// rank orders non-cancelled statuses along the forward progression.
func rank(s Status) int {
	for i, v := range Statuses[:len(Statuses)-1] {
		if v == s {
			return i
		}
	}
	return -1
}

// Supersedes reports whether next is a later point in the lifecycle than
// prev, so a polled status may replace a held one.
func Supersedes(prev, next Status) bool {
	if prev == next || prev.IsTerminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return rank(next) > rank(prev)
}
