package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wanderstay/models"
)

// MailRelaySender delivers confirmation emails through the configured HTTP
// mail relay.
type MailRelaySender struct {
	RelayURL string
	From     string
	Client   *http.Client
}

func NewMailRelaySender(relayURL, from string) *MailRelaySender {
	return &MailRelaySender{
		RelayURL: relayURL,
		From:     from,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type relayMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (s *MailRelaySender) SendBookingConfirmed(ctx context.Context, payload models.ConfirmationEmailPayload) error {
	msg := relayMessage{
		From:    s.From,
		To:      payload.GuestEmail,
		Subject: fmt.Sprintf("Your booking at %s is confirmed", payload.HotelName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour booking at %s is confirmed.\n\nConfirmation number: %s\nCheck-in: %s\nCheck-out: %s\nTotal: %.2f %s\n\nSafe travels,\nThe Wanderstay team",
			payload.GuestName, payload.HotelName, payload.ConfirmationNumber,
			payload.Checkin, payload.Checkout, payload.Amount, payload.Currency,
		),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal relay message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.RelayURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}
