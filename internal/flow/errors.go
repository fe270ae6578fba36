// README: Flow errors; validation failures carry a machine-readable reason.
package flow

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition  = errors.New("intent not allowed in current step")
	ErrSubmitInFlight     = errors.New("a submission is already in flight")
	ErrFeedbackNotAllowed = errors.New("feedback is only accepted for completed bookings")
	ErrDistanceTooShort   = errors.New("distance is too short")
	ErrDistanceTooLong    = errors.New("distance is too long")
)

type Reason string

const (
	ReasonMissingLocation    Reason = "missing_location"
	ReasonInvalidLocation    Reason = "invalid_location"
	ReasonDistanceOutOfRange Reason = "distance_out_of_range"
	ReasonNoTierSelected     Reason = "no_tier_selected"
	ReasonUnknownTier        Reason = "unknown_tier"
	ReasonRatingOutOfRange   Reason = "rating_out_of_range"
	ReasonCommentTooLong     Reason = "comment_too_long"
)

// ValidationError is a recoverable input failure; the flow stays where it was.
type ValidationError struct {
	Reason Reason
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(reason Reason, err error) error {
	return &ValidationError{Reason: reason, Err: err}
}

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason, true
	}
	return "", false
}
