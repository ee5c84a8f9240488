package models

// ConfirmationEmailPayload is the asynq task payload for the detached
// booking-confirmed email.
type ConfirmationEmailPayload struct {
	BookingID          string  `json:"bookingId"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	GuestName          string  `json:"guestName"`
	GuestEmail         string  `json:"guestEmail"`
	HotelName          string  `json:"hotelName"`
	Checkin            string  `json:"checkin"`
	Checkout           string  `json:"checkout"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
}
