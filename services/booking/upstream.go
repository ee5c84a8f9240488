package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wanderstay/models"
)

// InventoryClient talks to the upstream hotel inventory/booking API.
type InventoryClient interface {
	CreateHold(ctx context.Context, offerID string) (*models.ReservationHold, error)
	ConfirmBooking(ctx context.Context, req ConfirmRequest) (*models.BookingConfirmation, error)
}

// ConfirmRequest is the upstream confirm payload. The payment block is built
// by the confirmation service from the resolved environment, never from
// client input.
type ConfirmRequest struct {
	PrebookID string         `json:"prebookId"`
	Holder    ConfirmHolder  `json:"holder"`
	Payment   ConfirmPayment `json:"payment"`
	HotelName string         `json:"hotelName"`
	RoomName  string         `json:"roomName"`
	Adults    int            `json:"adults"`
	Children  int            `json:"children"`
}

type ConfirmHolder struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type ConfirmPayment struct {
	Method        string `json:"method"`
	TransactionID string `json:"transactionId,omitempty"`
}

// HTTPInventoryClient is the production InventoryClient.
type HTTPInventoryClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPInventoryClient(baseURL, apiKey string) *HTTPInventoryClient {
	return &HTTPInventoryClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type holdResponse struct {
	PrebookID        string  `json:"prebookId"`
	PaymentSecret    string  `json:"paymentSecret"`
	PaymentReference string  `json:"paymentReference"`
	Total            float64 `json:"total"`
	Currency         string  `json:"currency"`
	ExpiresAt        string  `json:"expiresAt"`
}

type upstreamErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateHold places a time-boxed hold on a priced offer.
func (c *HTTPInventoryClient) CreateHold(ctx context.Context, offerID string) (*models.ReservationHold, error) {
	body, resp, err := c.post(ctx, "/booking/hold", map[string]string{"offerId": offerID})
	if err != nil {
		return nil, &UpstreamUnavailableError{Op: "hold", Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest:
		ue := decodeUpstreamError(body)
		return nil, NewValidationError("offerId", ue.Message)
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusGone:
		ue := decodeUpstreamError(body)
		return nil, &OfferUnavailableError{OfferID: offerID, Message: ue.Message}
	default:
		return nil, &UpstreamUnavailableError{
			Op:  "hold",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var hr holdResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, &UpstreamUnavailableError{Op: "hold", Err: fmt.Errorf("malformed response: %w", err)}
	}

	expiresAt, err := time.Parse(time.RFC3339, hr.ExpiresAt)
	if err != nil {
		// Upstream omits expiry on some sandbox plans; fall back to the
		// documented 20-minute hold window.
		expiresAt = time.Now().Add(20 * time.Minute)
	}

	return &models.ReservationHold{
		PrebookID:        hr.PrebookID,
		PaymentSecret:    hr.PaymentSecret,
		PaymentReference: hr.PaymentReference,
		Total:            models.Money{Amount: hr.Total, Currency: hr.Currency},
		ExpiresAt:        expiresAt,
	}, nil
}

type confirmResponse struct {
	BookingID          string  `json:"bookingId"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	Status             string  `json:"status"`
	Checkin            string  `json:"checkin"`
	Checkout           string  `json:"checkout"`
	Total              float64 `json:"total"`
	Currency           string  `json:"currency"`
}

// ConfirmBooking finalizes a held booking upstream. Any non-2xx answer maps to
// UpstreamBookingError so the orchestrator never sees a transport failure.
func (c *HTTPInventoryClient) ConfirmBooking(ctx context.Context, req ConfirmRequest) (*models.BookingConfirmation, error) {
	body, resp, err := c.post(ctx, "/booking/confirm", req)
	if err != nil {
		return nil, &UpstreamUnavailableError{Op: "confirm", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ue := decodeUpstreamError(body)
		return nil, &UpstreamBookingError{Status: resp.StatusCode, Code: ue.Code, Message: ue.Message}
	}

	var cr confirmResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &UpstreamUnavailableError{Op: "confirm", Err: fmt.Errorf("malformed response: %w", err)}
	}

	return &models.BookingConfirmation{
		BookingID:          cr.BookingID,
		ConfirmationNumber: cr.ConfirmationNumber,
		Status:             cr.Status,
		Checkin:            cr.Checkin,
		Checkout:           cr.Checkout,
		Total:              models.Money{Amount: cr.Total, Currency: cr.Currency},
		CreatedAt:          time.Now(),
	}, nil
}

func (c *HTTPInventoryClient) post(ctx context.Context, path string, payload any) ([]byte, *http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return body, resp, nil
}

func decodeUpstreamError(body []byte) upstreamErrorBody {
	ue := upstreamErrorBody{Code: "UNKNOWN", Message: "upstream rejected the request"}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &ue)
	}
	return ue
}
