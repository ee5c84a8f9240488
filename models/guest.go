package models

// GuestInfo identifies the booking holder. Carried through the checkpoint and
// immutable once payment begins.
type GuestInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
