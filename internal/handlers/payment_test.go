package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fastparcel/fastparcel-gobackend/internal/models"
	"github.com/fastparcel/fastparcel-gobackend/internal/services"
)

type fakePaymentStore struct {
	ListFunc   func(ctx context.Context, email string) ([]models.Payment, error)
	RecordFunc func(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error)
}

func (f *fakePaymentStore) List(ctx context.Context, email string) ([]models.Payment, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, email)
	}
	return []models.Payment{}, nil
}

func (f *fakePaymentStore) Record(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error) {
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, req)
	}
	return primitive.NewObjectID(), nil
}

func newPaymentRouter(store PaymentStore) *mux.Router {
	h := NewPaymentHandler(store)
	r := mux.NewRouter()
	r.HandleFunc("/payments", h.GetPayments).Methods("GET")
	r.HandleFunc("/payments", h.RecordPayment).Methods("POST")
	return r
}

func TestGetPayments(t *testing.T) {
	paidAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := &fakePaymentStore{
		ListFunc: func(ctx context.Context, email string) ([]models.Payment, error) {
			return []models.Payment{{
				ParcelID:     primitive.NewObjectID().Hex(),
				Email:        email,
				Amount:       12.5,
				PaidAt:       paidAt,
				PaidAtString: paidAt.Format(time.RFC3339),
			}}, nil
		},
	}
	router := newPaymentRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/payments?email=a@x.com", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("expected success true")
	}
	if body["count"] != float64(1) {
		t.Errorf("expected count 1, got %v", body["count"])
	}
}

func TestRecordPayment(t *testing.T) {
	insertedID := primitive.NewObjectID()
	parcelID := primitive.NewObjectID().Hex()
	var gotReq models.PaymentRequest
	store := &fakePaymentStore{
		RecordFunc: func(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error) {
			gotReq = req
			return insertedID, nil
		},
	}
	router := newPaymentRouter(store)

	payload := `{"id":"` + parcelID + `","email":"a@x.com","amount":25,"paymentMethod":"card","transactionId":"pi_123"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments", bytes.NewBufferString(payload))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["insertedId"] != insertedID.Hex() {
		t.Errorf("expected insertedId %q, got %q", insertedID.Hex(), body["insertedId"])
	}
	if gotReq.ParcelID != parcelID {
		t.Errorf("expected parcel id %s, got %s", parcelID, gotReq.ParcelID)
	}
	if gotReq.Amount != 25 || gotReq.PaymentMethod != "card" || gotReq.TransactionID != "pi_123" {
		t.Errorf("request fields not passed through: %+v", gotReq)
	}
}

func TestRecordPaymentAlreadyPaid(t *testing.T) {
	store := &fakePaymentStore{
		RecordFunc: func(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error) {
			return primitive.NilObjectID, services.ErrParcelNotPayable
		},
	}
	router := newPaymentRouter(store)

	payload := `{"id":"` + primitive.NewObjectID().Hex() + `","email":"a@x.com","amount":25}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments", bytes.NewBufferString(payload))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Parcel not found or already paid" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestRecordPaymentInvalidID(t *testing.T) {
	store := &fakePaymentStore{
		RecordFunc: func(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error) {
			return primitive.NilObjectID, services.ErrInvalidID
		},
	}
	router := newPaymentRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payments", bytes.NewBufferString(`{"id":"nope"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
