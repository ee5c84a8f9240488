package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderstay/models"
)

// BookingState names a position in the booking transaction state machine.
type BookingState string

const (
	StateIdle            BookingState = "Idle"
	StateHoldCreated     BookingState = "HoldCreated"
	StateAwaitingPayment BookingState = "AwaitingPayment"
	StateReconciling     BookingState = "Reconciling"
	StateConfirmed       BookingState = "Confirmed"
	StateAbandoned       BookingState = "Abandoned"
	StateFailed          BookingState = "Failed"
)

// SessionExpiredMessage is shown when a return signal has no matching
// checkpoint and the user must start over.
const SessionExpiredMessage = "Your booking session has expired. Please start your booking again."

// Claims outlive their checkpoint so a consumed signal can never confirm a
// second time, even after a failed confirm.
const claimTTL = 24 * time.Hour

// Orchestrator sequences hold, checkpoint, payment hand-off and confirmation,
// and owns the terminal outcome of each booking transaction.
type Orchestrator struct {
	Holds       HoldManager
	Checkpoints CheckpointStore
	Bridge      *PaymentRedirectBridge
	Confirmer   ConfirmationService
	Logger      *zap.Logger

	// Now is injectable for expiry tests; defaults to time.Now.
	Now func() time.Time
}

func NewOrchestrator(
	holds HoldManager,
	checkpoints CheckpointStore,
	bridge *PaymentRedirectBridge,
	confirmer ConfirmationService,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		Holds:       holds,
		Checkpoints: checkpoints,
		Bridge:      bridge,
		Confirmer:   confirmer,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Hold moves Idle → HoldCreated → AwaitingPayment: it places the upstream
// hold, persists the checkpoint, and returns the widget hand-off. The
// checkpoint is durably saved before the widget config is handed out — that
// ordering is what makes the return navigation reconcilable.
func (o *Orchestrator) Hold(ctx context.Context, req HoldRequest) (*HoldResult, error) {
	if err := validateGuest(req.Guest); err != nil {
		return nil, err
	}

	hold, err := o.Holds.Hold(ctx, req.Offer)
	if err != nil {
		return nil, err
	}

	ttl := time.Until(hold.ExpiresAt)
	if ttl <= 0 {
		return nil, &OfferUnavailableError{OfferID: req.Offer.OfferID, Message: "hold expired on arrival"}
	}

	sessionKey := CheckpointKey(hold.PrebookID)
	cp := models.CheckpointState{
		SessionKey: sessionKey,
		Hold:       *hold,
		Guest:      req.Guest,
		HotelName:  req.HotelName,
		RoomName:   req.Offer.RoomName,
		Adults:     req.Adults,
		Children:   req.Children,
	}

	if err := o.Checkpoints.Save(ctx, sessionKey, cp, ttl); err != nil {
		return nil, fmt.Errorf("failed to persist booking checkpoint: %w", err)
	}

	o.Logger.Info("checkpoint saved, awaiting payment",
		zap.String("sessionKey", sessionKey),
		zap.String("prebookId", hold.PrebookID),
	)

	return &HoldResult{
		SessionKey:  sessionKey,
		State:       StateAwaitingPayment,
		Hold:        *hold,
		Widget:      o.Bridge.WidgetConfig(*hold),
		Environment: string(o.Bridge.Environment),
	}, nil
}

// Reconcile handles the browser's return from the payment page. It loads the
// checkpoint for the signal's prebook id, claims the signal, confirms the
// booking at most once and clears the checkpoint on any terminal outcome that
// consumes it.
func (o *Orchestrator) Reconcile(ctx context.Context, signal models.PaymentReturnSignal) (*ReconcileResult, error) {
	sessionKey := CheckpointKey(signal.PrebookID)

	cp, err := o.Checkpoints.Load(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking checkpoint: %w", err)
	}

	// A signal with no matching checkpoint is stale or foreign. Discard it
	// without calling confirm.
	if cp == nil || cp.Hold.PrebookID != signal.PrebookID {
		o.Logger.Warn("stale return signal, no matching checkpoint",
			zap.String("prebookId", signal.PrebookID),
			zap.String("transactionId", signal.TransactionID),
		)
		return &ReconcileResult{State: StateAbandoned, Message: SessionExpiredMessage}, nil
	}

	if o.Now().After(cp.Hold.ExpiresAt) {
		if err := o.Checkpoints.Clear(ctx, sessionKey); err != nil {
			o.Logger.Error("failed to clear expired checkpoint", zap.Error(err))
		}
		return &ReconcileResult{State: StateAbandoned, Message: SessionExpiredMessage}, nil
	}

	claimed, err := o.Bridge.Claim(ctx, signal, claimTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim return signal: %w", err)
	}
	if !claimed {
		return &ReconcileResult{State: StateReconciling, Duplicate: true}, nil
	}

	confirmation, err := o.Confirmer.Confirm(ctx, *cp, signal)
	if err != nil {
		var ube *UpstreamBookingError
		if errors.As(err, &ube) {
			requestID := uuid.New().String()
			o.Logger.Error("confirm rejected upstream",
				zap.String("prebookId", signal.PrebookID),
				zap.Int("status", ube.Status),
				zap.String("code", ube.Code),
				zap.String("requestId", requestID),
			)
			// Checkpoint is retained: the hold may be partially consumed and
			// support resolves Failed bookings out of band.
			return &ReconcileResult{
				State:          StateFailed,
				Message:        ube.Message,
				UpstreamStatus: ube.Status,
				UpstreamCode:   ube.Code,
				RequestID:      requestID,
			}, nil
		}
		var uua *UpstreamUnavailableError
		if errors.As(err, &uua) {
			// The confirm call died in flight, so the booking may or may not
			// exist upstream. The claim stays consumed; support untangles it.
			requestID := uuid.New().String()
			o.Logger.Error("confirm outcome unknown, upstream unreachable",
				zap.String("prebookId", signal.PrebookID),
				zap.String("requestId", requestID),
				zap.Error(err),
			)
			return &ReconcileResult{
				State:        StateFailed,
				Message:      "We could not verify your booking. Please contact support.",
				UpstreamCode: "UPSTREAM_UNREACHABLE",
				RequestID:    requestID,
			}, nil
		}
		return nil, err
	}

	if err := o.Checkpoints.Clear(ctx, sessionKey); err != nil {
		o.Logger.Error("failed to clear checkpoint after confirmation",
			zap.String("sessionKey", sessionKey),
			zap.Error(err),
		)
	}

	o.Logger.Info("booking transaction confirmed",
		zap.String("prebookId", signal.PrebookID),
		zap.String("bookingId", confirmation.BookingID),
	)

	return &ReconcileResult{State: StateConfirmed, Booking: confirmation}, nil
}
