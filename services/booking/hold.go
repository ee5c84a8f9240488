package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"wanderstay/models"
)

// HoldManager places a time-boxed hold on a priced offer. It does not touch
// the checkpoint store — the orchestrator persists the result immediately so
// the hold is never left without a durable audit point.
type HoldManager interface {
	Hold(ctx context.Context, offer models.PricedOffer) (*models.ReservationHold, error)
}

// DefaultHoldManager implements HoldManager against the inventory API.
type DefaultHoldManager struct {
	Client       InventoryClient
	Logger       *zap.Logger
	RetryBackoff time.Duration
}

func NewHoldManager(client InventoryClient, logger *zap.Logger) *DefaultHoldManager {
	return &DefaultHoldManager{
		Client:       client,
		Logger:       logger,
		RetryBackoff: 2 * time.Second,
	}
}

// Hold validates the priced offer and calls the upstream hold endpoint. A
// transient upstream failure is retried once after a backoff; offer and
// validation failures are not retried.
func (m *DefaultHoldManager) Hold(ctx context.Context, offer models.PricedOffer) (*models.ReservationHold, error) {
	if strings.TrimSpace(offer.OfferID) == "" {
		return nil, NewValidationError("offer.offerId", "offer id is required")
	}

	hold, err := m.Client.CreateHold(ctx, offer.OfferID)
	if err == nil {
		m.logHoldCreated(offer, hold, "hold created")
		return hold, nil
	}

	var unavailable *UpstreamUnavailableError
	if !errors.As(err, &unavailable) {
		return nil, err
	}

	m.Logger.Warn("hold attempt failed, retrying once",
		zap.String("offerId", offer.OfferID),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
		return nil, &UpstreamUnavailableError{Op: "hold", Err: ctx.Err()}
	case <-time.After(m.RetryBackoff):
	}

	hold, err = m.Client.CreateHold(ctx, offer.OfferID)
	if err != nil {
		return nil, err
	}

	m.logHoldCreated(offer, hold, "hold created on retry")
	return hold, nil
}

// logHoldCreated also flags repricing drift: the hold total is authoritative,
// but a mismatch against the quoted offer is worth an operator's attention.
func (m *DefaultHoldManager) logHoldCreated(offer models.PricedOffer, hold *models.ReservationHold, msg string) {
	m.Logger.Info(msg,
		zap.String("offerId", offer.OfferID),
		zap.String("prebookId", hold.PrebookID),
		zap.Time("expiresAt", hold.ExpiresAt),
	)
	if offer.Total.Amount > 0 && hold.Total != offer.Total {
		m.Logger.Warn("hold repriced upstream",
			zap.String("offerId", offer.OfferID),
			zap.Float64("quotedAmount", offer.Total.Amount),
			zap.Float64("heldAmount", hold.Total.Amount),
			zap.String("currency", hold.Total.Currency),
		)
	}
}
