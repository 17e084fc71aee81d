package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// PaymentIntentCreator is implemented by services.StripeService.
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error)
}

type StripeHandler struct {
	gateway PaymentIntentCreator
}

func NewStripeHandler(gateway PaymentIntentCreator) *StripeHandler {
	return &StripeHandler{gateway: gateway}
}

// CreatePaymentIntent handles POST /create-payment-intent. Gateway failures
// are the one case where the upstream error message is surfaced to the
// client, since the frontend displays it on the payment form.
func (h *StripeHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountInCents int64 `json:"amountInCents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	clientSecret, err := h.gateway.CreatePaymentIntent(r.Context(), req.AmountInCents)
	if err != nil {
		log.Printf("Failed to create payment intent: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}
