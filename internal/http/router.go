// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skyride/internal/flow"
	"skyride/internal/http/handlers"
	"skyride/internal/http/middleware"
	"skyride/internal/modules/booking"
	"skyride/internal/modules/location"
)

type RouterDeps struct {
	Sessions    *flow.Registry
	Gateway     flow.Gateway
	Locations   *location.Service
	Bookings    *booking.Service
	RecentLimit int
	Log         logrus.FieldLogger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	catalog := handlers.NewCatalogHandler(deps.Gateway, deps.Locations)
	api.GET("/tiers", catalog.Tiers)
	api.GET("/locations", catalog.Locations)

	bookingHandler := handlers.NewBookingHandler(deps.Gateway, deps.Bookings, deps.RecentLimit)
	api.GET("/bookings/recent", bookingHandler.Recent)
	api.POST("/bookings/:id/status", bookingHandler.Advance)

	sessionHandler := handlers.NewSessionHandler(deps.Sessions)
	api.POST("/sessions", sessionHandler.Create)
	sessions := api.Group("/sessions/:id")
	sessions.GET("", sessionHandler.Get)
	sessions.DELETE("", sessionHandler.Delete)
	sessions.POST("/pickup", sessionHandler.Pickup)
	sessions.POST("/destination", sessionHandler.Destination)
	sessions.POST("/continue", sessionHandler.ContinueToTier)
	sessions.POST("/tier", sessionHandler.SelectTier)
	sessions.POST("/summary", sessionHandler.ContinueToSummary)
	sessions.POST("/back", sessionHandler.Back)
	sessions.POST("/confirm", sessionHandler.Confirm)
	sessions.POST("/poll", sessionHandler.Poll)
	sessions.POST("/reset", sessionHandler.Reset)
	sessions.POST("/feedback", sessionHandler.SubmitFeedback)
	sessions.POST("/feedback/open", sessionHandler.OpenFeedback)
	sessions.POST("/feedback/dismiss", sessionHandler.DismissFeedback)

	return r
}
