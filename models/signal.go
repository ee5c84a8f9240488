package models

// PaymentReturnSignal is parsed from the return navigation's query string.
// Ephemeral — it exists only while the return is being reconciled against a
// stored checkpoint.
type PaymentReturnSignal struct {
	TransactionID string `json:"transactionId"`
	PrebookID     string `json:"prebookId"`
}
