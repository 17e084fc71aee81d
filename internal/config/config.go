package config

import "os"

type Config struct {
	Port            string
	MongoURI        string
	MongoDBName     string
	StripeSecretKey string
	StripeAPIBase   string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "parcelDB"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIBase:   getEnv("STRIPE_API_BASE", "https://api.stripe.com"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
