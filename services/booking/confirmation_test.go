package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderstay/models"
)

// fakeInventoryClient scripts upstream behavior and records confirm traffic.
type fakeInventoryClient struct {
	mu           sync.Mutex
	hold         models.ReservationHold
	holdErr      error
	confirmation models.BookingConfirmation
	confirmErr   error
	confirmCalls int
	lastConfirm  ConfirmRequest
}

func (f *fakeInventoryClient) CreateHold(ctx context.Context, offerID string) (*models.ReservationHold, error) {
	if f.holdErr != nil {
		return nil, f.holdErr
	}
	hold := f.hold
	return &hold, nil
}

func (f *fakeInventoryClient) ConfirmBooking(ctx context.Context, req ConfirmRequest) (*models.BookingConfirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls++
	f.lastConfirm = req
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	confirmation := f.confirmation
	return &confirmation, nil
}

func (f *fakeInventoryClient) ConfirmCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmCalls
}

func (f *fakeInventoryClient) LastConfirm() ConfirmRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastConfirm
}

// fakeDispatcher records dispatched notifications on a channel.
type fakeDispatcher struct {
	err      error
	payloads chan models.ConfirmationEmailPayload
}

func newFakeDispatcher(err error) *fakeDispatcher {
	return &fakeDispatcher{err: err, payloads: make(chan models.ConfirmationEmailPayload, 4)}
}

func (d *fakeDispatcher) DispatchBookingConfirmed(ctx context.Context, payload models.ConfirmationEmailPayload) error {
	d.payloads <- payload
	return d.err
}

func healthyFakeClient() *fakeInventoryClient {
	return &fakeInventoryClient{
		hold: models.ReservationHold{
			PrebookID:        "PB1",
			PaymentSecret:    "ps_secret",
			PaymentReference: "TX1",
			Total:            models.Money{Amount: 450, Currency: "USD"},
			ExpiresAt:        time.Now().Add(20 * time.Minute),
		},
		confirmation: models.BookingConfirmation{
			BookingID:          "BK1",
			ConfirmationNumber: "CONF1",
			Status:             "CONFIRMED",
			Checkin:            "2025-06-14",
			Checkout:           "2025-06-16",
			Total:              models.Money{Amount: 450, Currency: "USD"},
		},
	}
}

func newConfirmationService(client InventoryClient, env Environment, notifier *fakeDispatcher) *DefaultConfirmationService {
	if notifier == nil {
		return NewConfirmationService(client, env, nil, nil, zap.NewNop())
	}
	return NewConfirmationService(client, env, notifier, nil, zap.NewNop())
}

func TestConfirm_SandboxPaymentPayload(t *testing.T) {
	client := healthyFakeClient()
	svc := newConfirmationService(client, EnvironmentSandbox, nil)
	cp := sampleCheckpoint("PB1")

	// Whatever transaction id rides in on the signal, sandbox never forwards
	// one and the method stays the account-card sentinel.
	for _, tid := range []string{"tx_abc", "tx_other", "TRANSACTION_ID"} {
		signal := models.PaymentReturnSignal{TransactionID: tid, PrebookID: "PB1"}
		_, err := svc.Confirm(context.Background(), cp, signal)
		require.NoError(t, err)

		payment := client.LastConfirm().Payment
		assert.Equal(t, PaymentMethodAccountCard, payment.Method)
		assert.Empty(t, payment.TransactionID)
	}
}

func TestConfirm_ProductionPaymentPayload(t *testing.T) {
	client := healthyFakeClient()
	svc := newConfirmationService(client, EnvironmentProduction, nil)
	cp := sampleCheckpoint("PB1")
	signal := models.PaymentReturnSignal{TransactionID: "tx_abc", PrebookID: "PB1"}

	_, err := svc.Confirm(context.Background(), cp, signal)
	require.NoError(t, err)

	payment := client.LastConfirm().Payment
	assert.Equal(t, PaymentMethodTransactionID, payment.Method)
	assert.Equal(t, "tx_abc", payment.TransactionID)
}

func TestConfirm_HolderAndStayDetails(t *testing.T) {
	client := healthyFakeClient()
	svc := newConfirmationService(client, EnvironmentSandbox, nil)
	cp := sampleCheckpoint("PB1")
	signal := models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"}

	confirmation, err := svc.Confirm(context.Background(), cp, signal)
	require.NoError(t, err)

	req := client.LastConfirm()
	assert.Equal(t, "PB1", req.PrebookID)
	assert.Equal(t, ConfirmHolder{FirstName: "Ada", LastName: "Osei", Email: "ada@example.com"}, req.Holder)
	assert.Equal(t, "Harbor View Hotel", req.HotelName)
	assert.Equal(t, 2, req.Adults)

	assert.Equal(t, "BK1", confirmation.BookingID)
	assert.Equal(t, "Harbor View Hotel", confirmation.HotelName)
	assert.Equal(t, "ada@example.com", confirmation.GuestEmail)
}

func TestConfirm_ValidatesGuestBeforeCall(t *testing.T) {
	client := healthyFakeClient()
	svc := newConfirmationService(client, EnvironmentSandbox, nil)
	cp := sampleCheckpoint("PB1")
	cp.Guest.Email = "not-an-email"

	_, err := svc.Confirm(context.Background(), cp, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, client.ConfirmCalls(), "no upstream call on validation failure")
}

func TestConfirm_UpstreamRejectionSurfaced(t *testing.T) {
	client := healthyFakeClient()
	client.confirmErr = &UpstreamBookingError{Status: 409, Code: "HOLD_CONSUMED", Message: "hold already consumed"}
	svc := newConfirmationService(client, EnvironmentSandbox, nil)

	_, err := svc.Confirm(context.Background(), sampleCheckpoint("PB1"), models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	var ube *UpstreamBookingError
	require.ErrorAs(t, err, &ube)
	assert.Equal(t, 409, ube.Status)
	assert.Equal(t, "HOLD_CONSUMED", ube.Code)
}

func TestConfirm_DispatchesNotification(t *testing.T) {
	client := healthyFakeClient()
	dispatcher := newFakeDispatcher(nil)
	svc := newConfirmationService(client, EnvironmentSandbox, dispatcher)

	_, err := svc.Confirm(context.Background(), sampleCheckpoint("PB1"), models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)

	select {
	case payload := <-dispatcher.payloads:
		assert.Equal(t, "BK1", payload.BookingID)
		assert.Equal(t, "CONF1", payload.ConfirmationNumber)
		assert.Equal(t, "Ada Osei", payload.GuestName)
		assert.Equal(t, "ada@example.com", payload.GuestEmail)
	case <-time.After(time.Second):
		t.Fatal("notification was never dispatched")
	}
}

func TestConfirm_NotificationFailureInvisible(t *testing.T) {
	client := healthyFakeClient()
	dispatcher := newFakeDispatcher(errors.New("queue down"))
	svc := newConfirmationService(client, EnvironmentSandbox, dispatcher)

	confirmation, err := svc.Confirm(context.Background(), sampleCheckpoint("PB1"), models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)
	assert.Equal(t, "BK1", confirmation.BookingID)

	select {
	case <-dispatcher.payloads:
	case <-time.After(time.Second):
		t.Fatal("notification was never attempted")
	}
}

func TestHTTPInventoryClient_ConfirmRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/booking/confirm", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"code": "HOLD_CONSUMED", "message": "hold already consumed"})
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPInventoryClient(srv.URL, "sand_test")
	_, err := client.ConfirmBooking(context.Background(), ConfirmRequest{PrebookID: "PB1"})

	var ube *UpstreamBookingError
	require.ErrorAs(t, err, &ube)
	assert.Equal(t, http.StatusConflict, ube.Status)
	assert.Equal(t, "HOLD_CONSUMED", ube.Code)
}

func TestHTTPInventoryClient_ConfirmSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "PB1", req.PrebookID)

		json.NewEncoder(w).Encode(map[string]any{
			"bookingId":          "BK1",
			"confirmationNumber": "CONF1",
			"status":             "CONFIRMED",
			"checkin":            "2025-06-14",
			"checkout":           "2025-06-16",
			"total":              450.0,
			"currency":           "USD",
		})
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPInventoryClient(srv.URL, "sand_test")
	confirmation, err := client.ConfirmBooking(context.Background(), ConfirmRequest{PrebookID: "PB1"})
	require.NoError(t, err)
	assert.Equal(t, "BK1", confirmation.BookingID)
	assert.Equal(t, "CONF1", confirmation.ConfirmationNumber)
	assert.Equal(t, models.Money{Amount: 450, Currency: "USD"}, confirmation.Total)
}
