// README: Booking handlers for the recent list and the dispatch stand-in status endpoint.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skyride/internal/modules/booking"
	"skyride/internal/types"
)

// maxRecentLimit caps the recent-bookings query.
const maxRecentLimit = 50

type RecentLister interface {
	ListRecentBookings(ctx context.Context, limit int) ([]booking.Booking, error)
}

type BookingHandler struct {
	recent       RecentLister
	bookings     *booking.Service
	defaultLimit int
}

func NewBookingHandler(recent RecentLister, svc *booking.Service, defaultLimit int) *BookingHandler {
	return &BookingHandler{recent: recent, bookings: svc, defaultLimit: defaultLimit}
}

type bookingView struct {
	booking.Booking
	StatusDisplay booking.StatusDisplay `json:"status_display"`
	FareDisplay   string                `json:"fare_display"`
}

func toBookingView(b booking.Booking) bookingView {
	return bookingView{Booking: b, StatusDisplay: b.Status.Display(), FareDisplay: b.DisplayFare().Display()}
}

func (h *BookingHandler) Recent(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentLimit {
			writeError(c, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = n
	}
	list, err := h.recent.ListRecentBookings(c.Request.Context(), limit)
	if err != nil {
		writeFlowError(c, err)
		return
	}
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingView(b))
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

type advanceReq struct {
	Status string `json:"status" binding:"required"`
}

// Advance moves a booking along its lifecycle on behalf of an external
// dispatcher.
func (h *BookingHandler) Advance(c *gin.Context) {
	var req advanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "status is required")
		return
	}
	b, err := h.bookings.Advance(c.Request.Context(), booking.AdvanceCommand{
		BookingID: types.ID(c.Param("id")),
		To:        booking.Status(req.Status),
	})
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toBookingView(*b))
}
