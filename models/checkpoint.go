package models

// CheckpointState is the minimal state needed to resume a booking after the
// browser navigates away to the external payment page and back. It is stored
// and loaded as one atomic unit, never merged field by field.
type CheckpointState struct {
	SessionKey string          `json:"sessionKey"`
	Hold       ReservationHold `json:"hold"`
	Guest      GuestInfo       `json:"guest"`
	HotelName  string          `json:"hotelName"`
	RoomName   string          `json:"roomName"`
	Adults     int             `json:"adults"`
	Children   int             `json:"children"`
}
