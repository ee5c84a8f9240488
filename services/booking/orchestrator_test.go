package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderstay/models"
)

type testRig struct {
	orchestrator *Orchestrator
	client       *fakeInventoryClient
	checkpoints  *MemoryCheckpointStore
}

func newTestRig(env Environment) *testRig {
	client := healthyFakeClient()
	checkpoints := NewMemoryCheckpointStore()
	bridge := NewPaymentRedirectBridge(NewMemoryClaimGate(), env, "pk_test_123", "https://stay.example.com", zap.NewNop())
	holds := NewHoldManager(client, zap.NewNop())
	holds.RetryBackoff = time.Millisecond
	confirmer := NewConfirmationService(client, env, nil, nil, zap.NewNop())

	return &testRig{
		orchestrator: NewOrchestrator(holds, checkpoints, bridge, confirmer, zap.NewNop()),
		client:       client,
		checkpoints:  checkpoints,
	}
}

func validHoldRequest() HoldRequest {
	return HoldRequest{
		Offer: models.PricedOffer{
			OfferID:  "OFFER1",
			Total:    models.Money{Amount: 450, Currency: "USD"},
			RoomName: "Deluxe Double",
		},
		Guest: models.GuestInfo{
			FirstName: "Ada",
			LastName:  "Osei",
			Email:     "ada@example.com",
			Phone:     "+233200000000",
		},
		HotelName: "Harbor View Hotel",
		Adults:    2,
	}
}

func TestHoldPersistsCheckpointBeforeHandOff(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)

	result, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingPayment, result.State)
	assert.Equal(t, "PB1", result.Hold.PrebookID)
	assert.Equal(t, "ps_secret", result.Widget.Secret)
	assert.Contains(t, result.Widget.ReturnURL, "tid=TX1")
	assert.Contains(t, result.Widget.ReturnURL, "pid=PB1")

	cp, err := rig.checkpoints.Load(ctx, result.SessionKey)
	require.NoError(t, err)
	require.NotNil(t, cp, "checkpoint must be durable before the widget is shown")
	assert.Equal(t, "PB1", cp.Hold.PrebookID)
	assert.Equal(t, "ada@example.com", cp.Guest.Email)
	assert.Equal(t, "Deluxe Double", cp.RoomName, "room carried from the priced offer")
}

func TestHoldRejectsIncompleteGuest(t *testing.T) {
	rig := newTestRig(EnvironmentSandbox)
	req := validHoldRequest()
	req.Guest.LastName = ""

	_, err := rig.orchestrator.Hold(context.Background(), req)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

// Scenario A: full round trip — hold, checkpoint, reconcile, confirm once,
// checkpoint gone.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)

	held, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)
	assert.Equal(t, 450.0, held.Hold.Total.Amount)

	result, err := rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)

	assert.Equal(t, StateConfirmed, result.State)
	require.NotNil(t, result.Booking)
	assert.Equal(t, "BK1", result.Booking.BookingID)
	assert.Equal(t, "CONF1", result.Booking.ConfirmationNumber)
	assert.Equal(t, 1, rig.client.ConfirmCalls())

	cp, err := rig.checkpoints.Load(ctx, held.SessionKey)
	require.NoError(t, err)
	assert.Nil(t, cp, "checkpoint cleared after confirmation")
}

// Scenario B: the same signal delivered twice confirms once; the second
// delivery is a no-op.
func TestDuplicateSignalConfirmsOnce(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)

	_, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	signal := models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"}

	first, err := rig.orchestrator.Reconcile(ctx, signal)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, first.State)

	second, err := rig.orchestrator.Reconcile(ctx, signal)
	require.NoError(t, err)
	assert.NotEqual(t, StateConfirmed, second.State)
	assert.Equal(t, 1, rig.client.ConfirmCalls())
}

// P1 under racing listeners: N concurrent reconciliations, one confirm.
func TestConcurrentReconciliationConfirmsOnce(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)

	_, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	signal := models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rig.orchestrator.Reconcile(ctx, signal)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rig.client.ConfirmCalls())
}

// Scenario D: a signal with no matching checkpoint is abandoned without a
// confirm call.
func TestStaleSignalNeverConfirms(t *testing.T) {
	rig := newTestRig(EnvironmentSandbox)

	result, err := rig.orchestrator.Reconcile(context.Background(), models.PaymentReturnSignal{TransactionID: "TX9", PrebookID: "PB9"})
	require.NoError(t, err)

	assert.Equal(t, StateAbandoned, result.State)
	assert.Equal(t, SessionExpiredMessage, result.Message)
	assert.Equal(t, 0, rig.client.ConfirmCalls())
}

func TestExpiredHoldIsAbandonedAndCheckpointCleared(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)

	held, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	rig.orchestrator.Now = func() time.Time { return time.Now().Add(time.Hour) }

	result, err := rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)

	assert.Equal(t, StateAbandoned, result.State)
	assert.Equal(t, 0, rig.client.ConfirmCalls())

	cp, err := rig.checkpoints.Load(ctx, held.SessionKey)
	require.NoError(t, err)
	assert.Nil(t, cp, "no dangling checkpoint after a terminal outcome")
}

// Scenario E: an upstream confirm rejection is terminal Failed; the
// checkpoint stays for support and the upstream code is surfaced.
func TestConfirmRejectionIsFailedWithCheckpointRetained(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)
	rig.client.confirmErr = &UpstreamBookingError{Status: 409, Code: "HOLD_CONSUMED", Message: "hold already consumed"}

	held, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	result, err := rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)

	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, 409, result.UpstreamStatus)
	assert.Equal(t, "HOLD_CONSUMED", result.UpstreamCode)
	assert.NotEmpty(t, result.RequestID)

	cp, err := rig.checkpoints.Load(ctx, held.SessionKey)
	require.NoError(t, err)
	assert.NotNil(t, cp, "checkpoint retained on Failed")

	// The consumed claim blocks any later confirm attempt for this signal.
	retry, err := rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)
	assert.True(t, retry.Duplicate)
	assert.Equal(t, 1, rig.client.ConfirmCalls())
}

func TestConfirmTransportFailureIsFailed(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(EnvironmentSandbox)
	rig.client.confirmErr = &UpstreamUnavailableError{Op: "confirm", Err: context.DeadlineExceeded}

	_, err := rig.orchestrator.Hold(ctx, validHoldRequest())
	require.NoError(t, err)

	result, err := rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "TX1", PrebookID: "PB1"})
	require.NoError(t, err)

	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", result.UpstreamCode)
	assert.NotEmpty(t, result.RequestID)
}

// P2 at the orchestrator level: with the environment fixed, nothing the
// client controls changes the outbound payment method.
func TestOutboundPaymentMethodIsEnvironmentOnly(t *testing.T) {
	for _, env := range []Environment{EnvironmentSandbox, EnvironmentProduction} {
		rig := newTestRig(env)
		ctx := context.Background()

		_, err := rig.orchestrator.Hold(ctx, validHoldRequest())
		require.NoError(t, err)

		_, err = rig.orchestrator.Reconcile(ctx, models.PaymentReturnSignal{TransactionID: "tx_abc", PrebookID: "PB1"})
		require.NoError(t, err)

		assert.Equal(t, env.PaymentMethod(), rig.client.LastConfirm().Payment.Method)
		if env == EnvironmentProduction {
			assert.Equal(t, "tx_abc", rig.client.LastConfirm().Payment.TransactionID)
		} else {
			assert.Empty(t, rig.client.LastConfirm().Payment.TransactionID)
		}
	}
}
