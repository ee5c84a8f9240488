package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderstay/utils"
)

// HealthHandler reports liveness plus the latest dependency snapshot. Before
// the first probe cycle completes the service reports itself as starting
// rather than degraded.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	switch {
	case status.CheckedAt.IsZero():
		c.JSON(http.StatusOK, gin.H{"status": "starting", "dependencies": status})
	case status.Degraded():
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": status})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": status})
	}
}
