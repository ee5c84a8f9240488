package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "wanderstay/database/repository/booking"
	"wanderstay/services/booking"
	"wanderstay/utils"
)

// BookingHandler exposes the booking transaction orchestrator over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Records bookingRepo.BookingRepository
	Logger  *zap.Logger
}

func NewBookingHandler(service booking.BookingService, records bookingRepo.BookingRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Service: service,
		Records: records,
		Logger:  logger,
	}
}

type holdInput struct {
	booking.HoldRequest

	// Older storefront clients send a payment method preference here. The
	// payment method is resolved server-side from the deployment credential;
	// this field is never read.
	Payment *struct {
		Method string `json:"method"`
	} `json:"payment"`
}

// CreateHold places a hold on a priced offer and returns the payment widget
// hand-off.
func (h *BookingHandler) CreateHold(c *gin.Context) {
	var input holdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.Hold(c.Request.Context(), input.HoldRequest)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReconcileReturn handles the browser's return navigation from the payment
// page. The tid/pid query parameters are the sole trigger.
func (h *BookingHandler) ReconcileReturn(c *gin.Context) {
	signal, ok := booking.ParseReturnSignal(c.Request.URL.Query())
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid return navigation", "tid and pid query parameters are required")
		return
	}

	result, err := h.Service.Reconcile(c.Request.Context(), signal)
	if err != nil {
		h.Logger.Error("reconciliation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "reconciliation failed", "please retry the return navigation")
		return
	}

	switch {
	case result.State == booking.StateConfirmed:
		c.JSON(http.StatusOK, result)
	case result.Duplicate:
		c.JSON(http.StatusAccepted, gin.H{
			"state":   result.State,
			"message": "this payment return is already being processed",
		})
	case result.State == booking.StateAbandoned:
		c.JSON(http.StatusGone, result)
	case result.State == booking.StateFailed:
		c.JSON(http.StatusBadGateway, result)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// GetBooking returns a confirmed booking record.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	confirmation, err := h.Records.GetByID(c.Request.Context(), c.Param("bookingId"))
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		return
	}
	if err != nil {
		h.Logger.Error("booking lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking lookup failed", "")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// ListBookings returns the confirmed bookings for a guest email.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "email query parameter is required")
		return
	}

	confirmations, err := h.Records.ListByGuestEmail(c.Request.Context(), email)
	if err != nil {
		h.Logger.Error("booking list failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking list failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": confirmations})
}

// respondBookingError maps the booking error taxonomy to HTTP statuses.
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var (
		validation  *booking.ValidationError
		unavailable *booking.OfferUnavailableError
		upstream    *booking.UpstreamUnavailableError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validation.Error())
	case errors.As(err, &unavailable):
		utils.JSONError(c, http.StatusConflict, "offer unavailable", "the selected offer is no longer available, please search again")
	case errors.As(err, &upstream):
		utils.JSONError(c, http.StatusServiceUnavailable, "booking service unavailable", "please try again shortly")
	default:
		h.Logger.Error("hold failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking failed", "an unexpected error occurred")
	}
}
