package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/fastparcel/fastparcel-gobackend/internal/config"
	"github.com/fastparcel/fastparcel-gobackend/internal/db"
	"github.com/fastparcel/fastparcel-gobackend/internal/handlers"
	"github.com/fastparcel/fastparcel-gobackend/internal/services"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg := config.Load()

	// Connect to MongoDB
	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx, client); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	database := client.Database(cfg.MongoDBName)

	// Initialize services and handlers
	parcelService := services.NewParcelService(database)
	parcelHandler := handlers.NewParcelHandler(parcelService)

	paymentService := services.NewPaymentService(database)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeAPIBase)
	stripeHandler := handlers.NewStripeHandler(stripeService)

	// Index creation failures are logged inside EnsureIndexes; the server
	// still starts without them.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	parcelService.EnsureIndexes(indexCtx)
	paymentService.EnsureIndexes(indexCtx)
	indexCancel()

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Parcel Server is running..."))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/parcels", parcelHandler.GetParcels).Methods("GET")
	router.HandleFunc("/parcels", parcelHandler.CreateParcel).Methods("POST")
	router.HandleFunc("/parcels/{parcelID}", parcelHandler.GetParcel).Methods("GET")
	router.HandleFunc("/parcels/{parcelID}", parcelHandler.DeleteParcel).Methods("DELETE")

	router.HandleFunc("/payments", paymentHandler.GetPayments).Methods("GET")
	router.HandleFunc("/payments", paymentHandler.RecordPayment).Methods("POST")

	router.HandleFunc("/create-payment-intent", stripeHandler.CreatePaymentIntent).Methods("POST")

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Parcel server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
