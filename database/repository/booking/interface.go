package bookingRepo

import (
	"context"

	"wanderstay/models"
)

// BookingRepository defines the interface for confirmed-booking data access.
type BookingRepository interface {
	Create(ctx context.Context, confirmation *models.BookingConfirmation) error
	GetByID(ctx context.Context, bookingID string) (*models.BookingConfirmation, error)
	ListByGuestEmail(ctx context.Context, email string) ([]models.BookingConfirmation, error)
}
