package booking

import (
	"fmt"
	"regexp"
	"time"
)

// CodePattern matches human-readable booking codes.
var CodePattern = regexp.MustCompile(`^SR\d{8}$`)

// NewCode returns "SR" followed by the last 8 digits of the millisecond
// timestamp. Codes are for display; they can collide under load, so rows
// are identified by the gateway-assigned id.
func NewCode(now time.Time) string {
	return fmt.Sprintf("SR%08d", now.UnixMilli()%100_000_000)
}
