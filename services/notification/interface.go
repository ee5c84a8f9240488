package notification

import (
	"context"

	"wanderstay/models"
)

// Dispatcher hands the booking-confirmed email off for delivery. Dispatch is
// detached from the booking outcome: the confirmation service logs a failed
// dispatch and moves on.
type Dispatcher interface {
	DispatchBookingConfirmed(ctx context.Context, payload models.ConfirmationEmailPayload) error
}

// Sender performs the actual delivery of a confirmation email. Implemented by
// the mail relay client; called from the background worker.
type Sender interface {
	SendBookingConfirmed(ctx context.Context, payload models.ConfirmationEmailPayload) error
}
