package models

// PaymentWidgetConfig is everything the storefront needs to mount the
// external payment widget for a held booking.
type PaymentWidgetConfig struct {
	Mode           string `json:"mode"` // "sandbox" or "production"
	PublishableKey string `json:"publishableKey"`
	Secret         string `json:"secret"` // opaque token issued with the hold
	ReturnURL      string `json:"returnUrl"`
}
