package routes

import (
	"github.com/gin-gonic/gin"

	"wanderstay/handlers"
)

// RegisterRoutes wires all route groups onto the router.
func RegisterRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	r.GET("/health", handlers.HealthHandler)
	RegisterBookingRoutes(r, h)
}
