package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fastparcel/fastparcel-gobackend/internal/models"
	"github.com/fastparcel/fastparcel-gobackend/internal/services"
)

// PaymentStore is the persistence surface the payment handlers need; tests
// substitute a fake.
type PaymentStore interface {
	List(ctx context.Context, email string) ([]models.Payment, error)
	Record(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error)
}

type PaymentHandler struct {
	store PaymentStore
}

func NewPaymentHandler(store PaymentStore) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// GetPayments handles GET /payments with an optional exact-match email filter.
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	payments, err := h.store.List(r.Context(), email)
	if err != nil {
		log.Printf("Failed to list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to fetch payments",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(payments),
		"payments": payments,
	})
}

// RecordPayment handles POST /payments: the parcel is marked paid and the
// payment is inserted together, so a missing or already-paid parcel records
// nothing.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	insertedID, err := h.store.Record(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid parcel id"})
		case errors.Is(err, services.ErrParcelNotPayable):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Parcel not found or already paid"})
		default:
			log.Printf("Failed to record payment for parcel %s: %v", req.ParcelID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": "Failed to record payment",
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"insertedId": insertedID.Hex(),
	})
}
