package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the storefront-facing error envelope for request-level
// failures. Booking outcomes (Confirmed, Abandoned, Failed) have their own
// result shapes; this envelope never carries transaction state.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler converts panics into a 500 envelope so a crashing request can
// never leak a half-written booking response to the storefront.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "internal error",
					Details: "the booking service hit an unexpected error, please try again",
				})
			}
		}()
		c.Next()
	}
}

// JSONError writes the error envelope and stops the handler chain.
func JSONError(c *gin.Context, status int, message, details string) {
	GetLogger().Warn(message,
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("details", details),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}
