package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingRepo "wanderstay/database/repository/booking"
	"wanderstay/models"
	"wanderstay/services/notification"
)

// ConfirmationService finalizes a held booking into a paid one, exactly once,
// then triggers a detached confirmation notification.
type ConfirmationService interface {
	Confirm(ctx context.Context, cp models.CheckpointState, signal models.PaymentReturnSignal) (*models.BookingConfirmation, error)
}

// DefaultConfirmationService implements ConfirmationService.
type DefaultConfirmationService struct {
	Client      InventoryClient
	Environment Environment
	Notifier    notification.Dispatcher
	Records     bookingRepo.BookingRepository
	Logger      *zap.Logger
}

func NewConfirmationService(
	client InventoryClient,
	env Environment,
	notifier notification.Dispatcher,
	records bookingRepo.BookingRepository,
	logger *zap.Logger,
) *DefaultConfirmationService {
	return &DefaultConfirmationService{
		Client:      client,
		Environment: env,
		Notifier:    notifier,
		Records:     records,
		Logger:      logger,
	}
}

// Confirm validates the holder, builds the upstream payload from the resolved
// environment, and executes the upstream confirm call. The payment method in
// the outbound payload is a function of the environment only.
func (s *DefaultConfirmationService) Confirm(ctx context.Context, cp models.CheckpointState, signal models.PaymentReturnSignal) (*models.BookingConfirmation, error) {
	if err := validateGuest(cp.Guest); err != nil {
		return nil, err
	}

	req := ConfirmRequest{
		PrebookID: cp.Hold.PrebookID,
		Holder: ConfirmHolder{
			FirstName: cp.Guest.FirstName,
			LastName:  cp.Guest.LastName,
			Email:     cp.Guest.Email,
		},
		Payment:   s.buildPaymentPayload(signal),
		HotelName: cp.HotelName,
		RoomName:  cp.RoomName,
		Adults:    cp.Adults,
		Children:  cp.Children,
	}

	confirmation, err := s.Client.ConfirmBooking(ctx, req)
	if err != nil {
		return nil, err
	}

	confirmation.HotelName = cp.HotelName
	confirmation.RoomName = cp.RoomName
	confirmation.GuestEmail = cp.Guest.Email
	if confirmation.CreatedAt.IsZero() {
		confirmation.CreatedAt = time.Now()
	}

	s.Logger.Info("booking confirmed",
		zap.String("prebookId", cp.Hold.PrebookID),
		zap.String("bookingId", confirmation.BookingID),
		zap.String("environment", string(s.Environment)),
	)

	// The booking already exists upstream; a failed local record write is
	// logged and does not change the outcome.
	if s.Records != nil {
		if err := s.Records.Create(ctx, confirmation); err != nil {
			s.Logger.Error("failed to persist booking record",
				zap.String("bookingId", confirmation.BookingID),
				zap.Error(err),
			)
		}
	}

	s.dispatchNotification(*confirmation, cp.Guest)

	return confirmation, nil
}

// buildPaymentPayload selects payment semantics from the environment. Sandbox
// credentials carry their own attached card, so no transaction id is
// forwarded there.
func (s *DefaultConfirmationService) buildPaymentPayload(signal models.PaymentReturnSignal) ConfirmPayment {
	payment := ConfirmPayment{Method: s.Environment.PaymentMethod()}
	if s.Environment.ForwardsTransactionID() {
		payment.TransactionID = signal.TransactionID
	}
	return payment
}

// dispatchNotification hands the confirmation email off without awaiting it.
// A dispatch failure is logged and otherwise invisible to the caller.
func (s *DefaultConfirmationService) dispatchNotification(confirmation models.BookingConfirmation, guest models.GuestInfo) {
	if s.Notifier == nil {
		return
	}

	payload := models.ConfirmationEmailPayload{
		BookingID:          confirmation.BookingID,
		ConfirmationNumber: confirmation.ConfirmationNumber,
		GuestName:          strings.TrimSpace(guest.FirstName + " " + guest.LastName),
		GuestEmail:         guest.Email,
		HotelName:          confirmation.HotelName,
		Checkin:            confirmation.Checkin,
		Checkout:           confirmation.Checkout,
		Amount:             confirmation.Total.Amount,
		Currency:           confirmation.Total.Currency,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Notifier.DispatchBookingConfirmed(ctx, payload); err != nil {
			s.Logger.Warn("failed to dispatch confirmation email",
				zap.String("bookingId", confirmation.BookingID),
				zap.Error(err),
			)
		}
	}()
}

func validateGuest(guest models.GuestInfo) error {
	switch {
	case strings.TrimSpace(guest.FirstName) == "":
		return NewValidationError("guest.firstName", "first name is required")
	case strings.TrimSpace(guest.LastName) == "":
		return NewValidationError("guest.lastName", "last name is required")
	case strings.TrimSpace(guest.Email) == "" || !strings.Contains(guest.Email, "@"):
		return NewValidationError("guest.email", "a valid email is required")
	}
	return nil
}
