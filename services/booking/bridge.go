package booking

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"wanderstay/models"
)

// Return-navigation query parameters. Their presence on page load is the sole
// trigger for reconciliation.
const (
	ReturnParamTransactionID = "tid"
	ReturnParamPrebookID     = "pid"
)

// PaymentRedirectBridge hands the user off to the external payment widget and
// reconciles the return navigation. It builds the return URL so it
// unambiguously carries the transaction and prebook ids, and it gates
// duplicate return events through the claim gate.
type PaymentRedirectBridge struct {
	Gate           ClaimGate
	Environment    Environment
	PublishableKey string
	ReturnBaseURL  string
	Logger         *zap.Logger
}

func NewPaymentRedirectBridge(gate ClaimGate, env Environment, publishableKey, returnBaseURL string, logger *zap.Logger) *PaymentRedirectBridge {
	return &PaymentRedirectBridge{
		Gate:           gate,
		Environment:    env,
		PublishableKey: publishableKey,
		ReturnBaseURL:  returnBaseURL,
		Logger:         logger,
	}
}

// ReturnURL builds the URL the payment widget sends the browser back to.
func (b *PaymentRedirectBridge) ReturnURL(hold models.ReservationHold) string {
	q := url.Values{}
	q.Set(ReturnParamTransactionID, hold.PaymentReference)
	q.Set(ReturnParamPrebookID, hold.PrebookID)
	return b.ReturnBaseURL + "/booking/return?" + q.Encode()
}

// WidgetConfig assembles the widget initialization for a hold: the resolved
// environment's mode and publishable key plus the hold's payment secret.
func (b *PaymentRedirectBridge) WidgetConfig(hold models.ReservationHold) models.PaymentWidgetConfig {
	return models.PaymentWidgetConfig{
		Mode:           string(b.Environment),
		PublishableKey: b.PublishableKey,
		Secret:         hold.PaymentSecret,
		ReturnURL:      b.ReturnURL(hold),
	}
}

// ParseReturnSignal extracts a PaymentReturnSignal from return-navigation
// query parameters. ok is false unless both parameters are present.
func ParseReturnSignal(query url.Values) (models.PaymentReturnSignal, bool) {
	signal := models.PaymentReturnSignal{
		TransactionID: query.Get(ReturnParamTransactionID),
		PrebookID:     query.Get(ReturnParamPrebookID),
	}
	if signal.TransactionID == "" || signal.PrebookID == "" {
		return models.PaymentReturnSignal{}, false
	}
	return signal, true
}

// Claim marks a return signal as taken. The first claim wins; duplicates from
// re-mounted views are no-ops.
func (b *PaymentRedirectBridge) Claim(ctx context.Context, signal models.PaymentReturnSignal, ttl time.Duration) (bool, error) {
	claimed, err := b.Gate.Claim(ctx, signal, ttl)
	if err != nil {
		return false, err
	}
	if !claimed {
		b.Logger.Info("duplicate return signal ignored",
			zap.String("transactionId", signal.TransactionID),
			zap.String("prebookId", signal.PrebookID),
		)
	}
	return claimed, nil
}
