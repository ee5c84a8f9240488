package models

import "time"

// ReservationHold is a time-boxed reservation of a priced offer issued by the
// upstream inventory API. Read-only after creation; single use — it becomes
// invalid after ExpiresAt or after a successful confirmation.
type ReservationHold struct {
	PrebookID        string    `json:"prebookId"`
	PaymentSecret    string    `json:"paymentSecret"`
	PaymentReference string    `json:"paymentReference"`
	Total            Money     `json:"total"`
	ExpiresAt        time.Time `json:"expiresAt"`
}
