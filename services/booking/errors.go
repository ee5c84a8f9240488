package booking

import "fmt"

// ValidationError reports client-correctable input problems. No network call
// is made once one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// OfferUnavailableError means the offer expired or sold out upstream. Terminal
// for the current offer; the user must re-search.
type OfferUnavailableError struct {
	OfferID string
	Message string
}

func (e *OfferUnavailableError) Error() string {
	return fmt.Sprintf("offer %s unavailable: %s", e.OfferID, e.Message)
}

// UpstreamUnavailableError covers network failures and 5xx responses from the
// inventory API. Transient; the hold step may retry it once.
type UpstreamUnavailableError struct {
	Op  string
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("upstream unavailable during %s: %v", e.Op, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// UpstreamBookingError is a confirm rejection from the upstream API. Never
// retried automatically — the hold may already be partially consumed.
type UpstreamBookingError struct {
	Status  int
	Code    string
	Message string
}

func (e *UpstreamBookingError) Error() string {
	return fmt.Sprintf("upstream booking error (%d %s): %s", e.Status, e.Code, e.Message)
}
