package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeGateway struct {
	CreatePaymentIntentFunc func(ctx context.Context, amountInCents int64) (string, error)
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	if f.CreatePaymentIntentFunc != nil {
		return f.CreatePaymentIntentFunc(ctx, amountInCents)
	}
	return "", errors.New("not implemented")
}

func TestCreatePaymentIntent(t *testing.T) {
	var gotAmount int64
	h := NewStripeHandler(&fakeGateway{
		CreatePaymentIntentFunc: func(ctx context.Context, amountInCents int64) (string, error) {
			gotAmount = amountInCents
			return "pi_123_secret_456", nil
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-payment-intent", bytes.NewBufferString(`{"amountInCents":500}`))
	h.CreatePaymentIntent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotAmount != 500 {
		t.Errorf("expected amount 500, got %d", gotAmount)
	}
	body := decodeBody(t, rec)
	if body["clientSecret"] != "pi_123_secret_456" {
		t.Errorf("expected client secret passed through unchanged, got %q", body["clientSecret"])
	}
}

func TestCreatePaymentIntentGatewayError(t *testing.T) {
	h := NewStripeHandler(&fakeGateway{
		CreatePaymentIntentFunc: func(ctx context.Context, amountInCents int64) (string, error) {
			return "", errors.New("Amount must be at least 50 cents")
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-payment-intent", bytes.NewBufferString(`{"amountInCents":1}`))
	h.CreatePaymentIntent(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Amount must be at least 50 cents" {
		t.Errorf("expected gateway message surfaced, got %q", body["error"])
	}
}

func TestCreatePaymentIntentBadBody(t *testing.T) {
	h := NewStripeHandler(&fakeGateway{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/create-payment-intent", bytes.NewBufferString(`{`))
	h.CreatePaymentIntent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
