package models

// Money is an amount in a named currency.
type Money struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}
