package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fastparcel/fastparcel-gobackend/internal/models"
	"github.com/fastparcel/fastparcel-gobackend/internal/services"
)

// ParcelStore is the persistence surface the parcel handlers need; tests
// substitute a fake.
type ParcelStore interface {
	List(ctx context.Context, email string) ([]models.Parcel, error)
	Get(ctx context.Context, parcelID string) (models.Parcel, error)
	Create(ctx context.Context, doc models.Parcel) (primitive.ObjectID, error)
	Delete(ctx context.Context, parcelID string) (int64, error)
}

type ParcelHandler struct {
	store ParcelStore
}

func NewParcelHandler(store ParcelStore) *ParcelHandler {
	return &ParcelHandler{store: store}
}

// GetParcels handles GET /parcels with an optional exact-match email filter.
func (h *ParcelHandler) GetParcels(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	parcels, err := h.store.List(r.Context(), email)
	if err != nil {
		log.Printf("Failed to list parcels: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to fetch parcels",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(parcels),
		"parcels": parcels,
	})
}

// GetParcel handles GET /parcels/{parcelID}.
func (h *ParcelHandler) GetParcel(w http.ResponseWriter, r *http.Request) {
	parcelID := mux.Vars(r)["parcelID"]

	parcel, err := h.store.Get(r.Context(), parcelID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid parcel id"})
		case errors.Is(err, services.ErrParcelNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Parcel not found"})
		default:
			log.Printf("Failed to get parcel %s: %v", parcelID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"message": "Internal Server Error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, parcel)
}

// CreateParcel handles POST /parcels. The body is stored as submitted; only
// trackingId is required.
func (h *ParcelHandler) CreateParcel(w http.ResponseWriter, r *http.Request) {
	var doc models.Parcel
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := models.ValidateParcel(doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Tracking ID is required"})
		return
	}

	insertedID, err := h.store.Create(r.Context(), doc)
	if err != nil {
		log.Printf("Failed to create parcel: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Internal Server Error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"insertedId": insertedID.Hex(),
	})
}

// DeleteParcel handles DELETE /parcels/{parcelID}. Deleting a missing parcel
// reports deletedCount 0 rather than an error.
func (h *ParcelHandler) DeleteParcel(w http.ResponseWriter, r *http.Request) {
	parcelID := mux.Vars(r)["parcelID"]

	deletedCount, err := h.store.Delete(r.Context(), parcelID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidID) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid parcel id"})
			return
		}
		log.Printf("Failed to delete parcel %s: %v", parcelID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Internal Server Error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deletedCount": deletedCount,
	})
}
