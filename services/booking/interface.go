package booking

import (
	"context"

	"wanderstay/models"
)

// BookingService is the storefront-facing surface of the booking transaction
// orchestrator.
type BookingService interface {
	Hold(ctx context.Context, req HoldRequest) (*HoldResult, error)
	Reconcile(ctx context.Context, signal models.PaymentReturnSignal) (*ReconcileResult, error)
}

// HoldRequest carries everything the hold step needs from the storefront:
// the priced offer selected on the rate-search surface plus the guest and
// stay details that end up in the checkpoint.
type HoldRequest struct {
	Offer     models.PricedOffer `json:"offer"`
	Guest     models.GuestInfo   `json:"guest"`
	HotelName string             `json:"hotelName"`
	Adults    int                `json:"adults"`
	Children  int                `json:"children"`
}

// HoldResult is returned once a hold is placed and its checkpoint persisted.
// It carries everything the storefront needs to mount the payment widget.
type HoldResult struct {
	SessionKey  string                     `json:"sessionKey"`
	State       BookingState               `json:"state"`
	Hold        models.ReservationHold     `json:"hold"`
	Widget      models.PaymentWidgetConfig `json:"widget"`
	Environment string                     `json:"environment"`
}

// ReconcileResult is the outcome of reconciling a payment return signal.
type ReconcileResult struct {
	State          BookingState                `json:"state"`
	Booking        *models.BookingConfirmation `json:"booking,omitempty"`
	Message        string                      `json:"message,omitempty"`
	Duplicate      bool                        `json:"duplicate,omitempty"`
	UpstreamStatus int                         `json:"upstreamStatus,omitempty"`
	UpstreamCode   string                      `json:"upstreamCode,omitempty"`
	RequestID      string                      `json:"requestId,omitempty"`
}
