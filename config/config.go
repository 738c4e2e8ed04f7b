package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV says we are deployed.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV string

	// Database: either a full connection string, or individual parts.
	DATABASE_URL string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	PORT int

	// Identity provider trust anchor: inline service-account JSON, or a
	// path to the key file for local development.
	FIREBASE_SERVICE_ACCOUNT      string
	FIREBASE_SERVICE_ACCOUNT_FILE string

	ALLOWED_ORIGINS string
	REDIS_URL       string
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5001
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	keyFile := os.Getenv("FIREBASE_SERVICE_ACCOUNT_FILE")
	if keyFile == "" {
		keyFile = "serviceAccountKey.json"
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,

		FIREBASE_SERVICE_ACCOUNT:      os.Getenv("FIREBASE_SERVICE_ACCOUNT"),
		FIREBASE_SERVICE_ACCOUNT_FILE: keyFile,

		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		REDIS_URL:       os.Getenv("REDIS_URL"),
	}

	return envVariables, nil
}

// ServiceAccountJSON returns the identity-provider credentials, preferring
// the inline env variable (deploy mode) over the key file (local mode).
func (e *EnvironmentVariable) ServiceAccountJSON() ([]byte, error) {
	if e.FIREBASE_SERVICE_ACCOUNT != "" {
		return []byte(e.FIREBASE_SERVICE_ACCOUNT), nil
	}
	data, err := os.ReadFile(e.FIREBASE_SERVICE_ACCOUNT_FILE)
	if err != nil {
		return nil, errors.New("identity provider credentials not configured: set FIREBASE_SERVICE_ACCOUNT or provide " + e.FIREBASE_SERVICE_ACCOUNT_FILE)
	}
	return data, nil
}
