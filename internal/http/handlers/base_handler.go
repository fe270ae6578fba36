// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyride/internal/flow"
	"skyride/internal/gateway"
	"skyride/internal/modules/booking"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeFlowError is the single place flow, booking and gateway errors become
// HTTP statuses.
func writeFlowError(c *gin.Context, err error) {
	if reason, ok := flow.ReasonOf(err); ok {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error(), Reason: string(reason)})
		return
	}
	switch {
	case errors.Is(err, flow.ErrInvalidTransition),
		errors.Is(err, flow.ErrSubmitInFlight),
		errors.Is(err, flow.ErrFeedbackNotAllowed),
		errors.Is(err, booking.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case gateway.IsKind(err, gateway.KindNotFound), errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, "booking not found")
	case gateway.IsKind(err, gateway.KindConstraint):
		writeError(c, http.StatusUnprocessableEntity, "rejected by storage constraints")
	case gateway.IsKind(err, gateway.KindConnectivity):
		writeError(c, http.StatusServiceUnavailable, "storage unavailable, please retry")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
