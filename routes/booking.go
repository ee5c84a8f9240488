package routes

import (
	"github.com/gin-gonic/gin"

	"wanderstay/handlers"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/hold", h.CreateHold)       // Phase 1: hold + checkpoint
		booking.GET("/return", h.ReconcileReturn) // Phase 2: payment return reconciliation
		booking.GET("/:bookingId", h.GetBooking)  // Confirmed booking lookup
	}
	r.GET("/api/bookings", h.ListBookings)
}
