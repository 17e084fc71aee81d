package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastparcel/fastparcel-gobackend/internal/models"
)

var ErrParcelNotPayable = errors.New("parcel not found or already paid")

type PaymentService struct {
	db *mongo.Database
}

func NewPaymentService(db *mongo.Database) *PaymentService {
	return &PaymentService{db: db}
}

// EnsureIndexes creates necessary indexes for the payments collection
func (s *PaymentService) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "paid_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "paid_at", Value: -1}}},
	}
	_, err := s.db.Collection("payments").Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create payment indexes: %v", err)
		return fmt.Errorf("failed to create payment indexes: %v", err)
	}
	return nil
}

// List retrieves payment history, newest first, optionally filtered by email.
func (s *PaymentService) List(ctx context.Context, email string) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if email != "" {
		query["email"] = email
	}

	cur, err := s.db.Collection("payments").Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}}))
	if err != nil {
		log.Printf("Failed to fetch payments: %v", err)
		return nil, fmt.Errorf("failed to fetch payments: %v", err)
	}
	defer cur.Close(ctx)

	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		log.Printf("Failed to decode payments: %v", err)
		return nil, fmt.Errorf("failed to decode payments: %v", err)
	}

	return payments, nil
}

// Record marks the parcel paid and inserts the payment document in a single
// transaction, so a crash or a concurrent call cannot leave a paid parcel
// without its payment record or record the same payment twice.
//
// The update matches on _id only; setting payment_status to a value it
// already holds counts as zero modified, so an already-paid parcel falls into
// the ErrParcelNotPayable branch and no payment is written.
func (s *PaymentService) Record(ctx context.Context, req models.PaymentRequest) (primitive.ObjectID, error) {
	parcelObjID, err := primitive.ObjectIDFromHex(req.ParcelID)
	if err != nil {
		log.Printf("Invalid parcelID format: %s, error: %v", req.ParcelID, err)
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := s.db.Client().StartSession()
	if err != nil {
		log.Printf("Failed to start session: %v", err)
		return primitive.NilObjectID, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	insertedID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.db.Collection("parcels").UpdateOne(sc,
			bson.M{"_id": parcelObjID},
			bson.M{"$set": bson.M{"payment_status": "paid"}})
		if err != nil {
			return nil, fmt.Errorf("failed to update parcel: %v", err)
		}
		if res.ModifiedCount == 0 {
			return nil, ErrParcelNotPayable
		}

		payment := newPayment(req, time.Now().UTC())
		ins, err := s.db.Collection("payments").InsertOne(sc, payment)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %v", err)
		}
		return ins.InsertedID, nil
	})
	if err != nil {
		if !errors.Is(err, ErrParcelNotPayable) {
			log.Printf("Failed to record payment for parcel %s: %v", req.ParcelID, err)
		}
		return primitive.NilObjectID, err
	}

	id, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", insertedID)
	}
	return id, nil
}

// newPayment stamps the payment with both the timestamp and its RFC 3339
// string form at the moment of recording.
func newPayment(req models.PaymentRequest, paidAt time.Time) models.Payment {
	return models.Payment{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		PaidAt:        paidAt,
		PaidAtString:  paidAt.Format(time.RFC3339),
	}
}
