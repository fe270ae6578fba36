// README: Session handlers; each booking-flow intent is one endpoint returning the view.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyride/internal/flow"
	"skyride/internal/modules/location"
	"skyride/internal/types"
)

type SessionHandler struct {
	sessions *flow.Registry
}

func NewSessionHandler(reg *flow.Registry) *SessionHandler {
	return &SessionHandler{sessions: reg}
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	View      flow.View `json:"view"`
}

type locationReq struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
}

type tierReq struct {
	TierID string `json:"tier_id" binding:"required"`
}

type feedbackReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *SessionHandler) controller(c *gin.Context) (*flow.Controller, bool) {
	ctrl, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return ctrl, true
}

func (h *SessionHandler) respond(c *gin.Context, status int, ctrl *flow.Controller) {
	writeJSON(c, status, sessionResponse{SessionID: c.Param("id"), View: ctrl.View()})
}

// intent runs a body-less intent and answers with the resulting view.
func (h *SessionHandler) intent(fn func(*flow.Controller) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := h.controller(c)
		if !ok {
			return
		}
		if err := fn(ctrl); err != nil {
			writeFlowError(c, err)
			return
		}
		h.respond(c, http.StatusOK, ctrl)
	}
}

func (h *SessionHandler) Create(c *gin.Context) {
	id, ctrl, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sessionResponse{SessionID: id, View: ctrl.View()})
}

func (h *SessionHandler) Get(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, ctrl)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		writeError(c, http.StatusNotFound, "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Pickup(c *gin.Context) {
	h.selectLocation(c, (*flow.Controller).SelectPickup)
}

func (h *SessionHandler) Destination(c *gin.Context) {
	h.selectLocation(c, (*flow.Controller).SelectDestination)
}

func (h *SessionHandler) selectLocation(c *gin.Context, sel func(*flow.Controller, location.Location) error) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	loc := location.Location{Latitude: *req.Latitude, Longitude: *req.Longitude, Address: req.Address}
	if err := sel(ctrl, loc); err != nil {
		writeFlowError(c, err)
		return
	}
	h.respond(c, http.StatusOK, ctrl)
}

func (h *SessionHandler) ContinueToTier(c *gin.Context) {
	h.intent((*flow.Controller).ContinueToTier)(c)
}

func (h *SessionHandler) SelectTier(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req tierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "tier_id is required")
		return
	}
	if err := ctrl.SelectTier(types.ID(req.TierID)); err != nil {
		writeFlowError(c, err)
		return
	}
	h.respond(c, http.StatusOK, ctrl)
}

func (h *SessionHandler) ContinueToSummary(c *gin.Context) {
	h.intent((*flow.Controller).ContinueToSummary)(c)
}

func (h *SessionHandler) Back(c *gin.Context) {
	h.intent((*flow.Controller).Back)(c)
}

func (h *SessionHandler) Confirm(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if _, err := ctrl.ConfirmBooking(c.Request.Context()); err != nil {
		writeFlowError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, ctrl)
}

func (h *SessionHandler) Poll(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	changed, err := ctrl.PollStatus(c.Request.Context())
	if err != nil {
		writeFlowError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"session_id": c.Param("id"), "changed": changed, "view": ctrl.View()})
}

func (h *SessionHandler) Reset(c *gin.Context) {
	h.intent((*flow.Controller).StartNewBooking)(c)
}

func (h *SessionHandler) OpenFeedback(c *gin.Context) {
	h.intent((*flow.Controller).OpenFeedback)(c)
}

func (h *SessionHandler) SubmitFeedback(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req feedbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := ctrl.SubmitFeedback(c.Request.Context(), req.Rating, req.Comment); err != nil {
		writeFlowError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, ctrl)
}

func (h *SessionHandler) DismissFeedback(c *gin.Context) {
	h.intent(func(ctrl *flow.Controller) error {
		ctrl.DismissFeedback()
		return nil
	})(c)
}
