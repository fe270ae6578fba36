// README: Post-trip feedback and its validation rules.
package feedback

import (
	"errors"
	"time"
	"unicode/utf8"

	"skyride/internal/types"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 200
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong   = errors.New("comment must be at most 200 characters")
)

type Feedback struct {
	ID        types.ID  `json:"id"`
	BookingID types.ID  `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a feedback row before the gateway assigns id and created_at.
type Draft struct {
	BookingID types.ID
	Rating    int
	Comment   *string
}

// NewDraft validates rating and comment. An empty comment becomes nil.
func NewDraft(bookingID types.ID, rating int, comment string) (Draft, error) {
	if rating < MinRating || rating > MaxRating {
		return Draft{}, ErrRatingOutOfRange
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return Draft{}, ErrCommentTooLong
	}
	d := Draft{BookingID: bookingID, Rating: rating}
	if comment != "" {
		d.Comment = &comment
	}
	return d, nil
}
