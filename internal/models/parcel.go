package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrTrackingIDRequired = errors.New("tracking ID is required")

// Parcel documents are stored exactly as the client submitted them, so the
// document is a raw bson map rather than a fixed struct. The fields the server
// itself reads or writes are trackingId, email, creation_date and
// payment_status.
type Parcel = bson.M

// ValidateParcel checks the single required field on a new parcel document.
func ValidateParcel(doc Parcel) error {
	trackingID, ok := doc["trackingId"].(string)
	if !ok || trackingID == "" {
		return ErrTrackingIDRequired
	}
	return nil
}
