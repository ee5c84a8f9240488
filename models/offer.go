package models

// PricedOffer is a room offer priced by the rate-search surface.
// Immutable; the only input the hold step needs.
type PricedOffer struct {
	OfferID  string `json:"offerId"`
	Total    Money  `json:"total"`
	RoomName string `json:"roomName"`
}
