package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT   string
	DB_URL string

	// APP_URL is the public origin of the site; stream URLs are minted
	// under {APP_URL}/stream/{token}.
	APP_URL     string
	CORS_ORIGIN string

	PAYSTACK_SECRET_KEY string
	PAYSTACK_PUBLIC_KEY string

	STREAM_TOKEN_SECRET string

	SMTP_FROM     string
	SMTP_PASSWORD string
	SMTP_HOST     string
	SMTP_PORT     string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")

	APP_URL = getEnv("APP_URL", "http://localhost:8000")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:8000")

	PAYSTACK_SECRET_KEY = mustEnv("PAYSTACK_SECRET_KEY")
	PAYSTACK_PUBLIC_KEY = mustEnv("PAYSTACK_PUBLIC_KEY")

	STREAM_TOKEN_SECRET = mustEnv("STREAM_TOKEN_SECRET")

	SMTP_FROM = getEnv("SMTP_FROM", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
