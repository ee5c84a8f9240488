// File: wanderstay/models/confirmation.go
package models

import "time"

// BookingConfirmation is the terminal artifact of a booking transaction,
// created exactly once per prebook by the upstream API. Immutable.
type BookingConfirmation struct {
	BookingID          string    `bson:"bookingId" json:"bookingId"`
	ConfirmationNumber string    `bson:"confirmationNumber" json:"confirmationNumber"`
	Status             string    `bson:"status" json:"status"`
	Checkin            string    `bson:"checkin" json:"checkin"`         // e.g. "2025-06-14"
	Checkout           string    `bson:"checkout" json:"checkout"`       // e.g. "2025-06-16"
	Total              Money     `bson:"total" json:"total"`
	HotelName          string    `bson:"hotelName" json:"hotelName"`
	RoomName           string    `bson:"roomName" json:"roomName"`
	GuestEmail         string    `bson:"guestEmail" json:"guestEmail"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}
