package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records one payment event against a parcel. ParcelID is the hex form
// of the parcel's ObjectID stored as a plain string, not a DB reference.
// PaidAtString duplicates PaidAt in RFC 3339 form; existing consumers of the
// payments collection read it, so both are kept.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ParcelID      string             `bson:"id" json:"id"`
	Email         string             `bson:"email" json:"email"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
	PaidAtString  string             `bson:"paid_at_string" json:"paid_at_string"`
}

// PaymentRequest is the body of POST /payments.
type PaymentRequest struct {
	ParcelID      string  `json:"id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
}
