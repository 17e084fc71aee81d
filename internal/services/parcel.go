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

var (
	ErrParcelNotFound = errors.New("parcel not found")
	ErrInvalidID      = errors.New("invalid parcel id")
)

type ParcelService struct {
	db *mongo.Database
}

func NewParcelService(db *mongo.Database) *ParcelService {
	return &ParcelService{db: db}
}

// EnsureIndexes creates necessary indexes for the parcels collection
func (s *ParcelService) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creation_date", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "creation_date", Value: -1}}},
	}
	_, err := s.db.Collection("parcels").Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create parcel indexes: %v", err)
		return fmt.Errorf("failed to create parcel indexes: %v", err)
	}
	return nil
}

// List retrieves parcels, newest first, optionally filtered by owner email.
func (s *ParcelService) List(ctx context.Context, email string) ([]models.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if email != "" {
		query["email"] = email
	}

	cur, err := s.db.Collection("parcels").Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "creation_date", Value: -1}}))
	if err != nil {
		log.Printf("Failed to fetch parcels: %v", err)
		return nil, fmt.Errorf("failed to fetch parcels: %v", err)
	}
	defer cur.Close(ctx)

	parcels := []models.Parcel{}
	if err := cur.All(ctx, &parcels); err != nil {
		log.Printf("Failed to decode parcels: %v", err)
		return nil, fmt.Errorf("failed to decode parcels: %v", err)
	}

	return parcels, nil
}

// Get retrieves a single parcel by its hex ObjectID.
func (s *ParcelService) Get(ctx context.Context, parcelID string) (models.Parcel, error) {
	parcelObjID, err := primitive.ObjectIDFromHex(parcelID)
	if err != nil {
		log.Printf("Invalid parcelID format: %s, error: %v", parcelID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var parcel models.Parcel
	if err := s.db.Collection("parcels").FindOne(ctx, bson.M{"_id": parcelObjID}).Decode(&parcel); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Printf("Parcel not found for ID %s", parcelID)
			return nil, ErrParcelNotFound
		}
		log.Printf("Failed to fetch parcel %s: %v", parcelID, err)
		return nil, fmt.Errorf("failed to fetch parcel: %v", err)
	}

	return parcel, nil
}

// Create inserts the parcel document exactly as submitted and returns the
// store-assigned id. Duplicate tracking ids are not rejected.
func (s *ParcelService) Create(ctx context.Context, doc models.Parcel) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection("parcels").InsertOne(ctx, doc)
	if err != nil {
		log.Printf("Failed to insert parcel: %v", err)
		return primitive.NilObjectID, fmt.Errorf("failed to insert parcel: %v", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return insertedID, nil
}

// Delete removes at most one parcel and reports how many documents were
// removed. Deleting a missing parcel is not an error.
func (s *ParcelService) Delete(ctx context.Context, parcelID string) (int64, error) {
	parcelObjID, err := primitive.ObjectIDFromHex(parcelID)
	if err != nil {
		log.Printf("Invalid parcelID format: %s, error: %v", parcelID, err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection("parcels").DeleteOne(ctx, bson.M{"_id": parcelObjID})
	if err != nil {
		log.Printf("Failed to delete parcel %s: %v", parcelID, err)
		return 0, fmt.Errorf("failed to delete parcel: %v", err)
	}

	return res.DeletedCount, nil
}
