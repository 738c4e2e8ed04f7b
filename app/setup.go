package app

import (
	"fmt"
	"log"

	"github.com/studyabroad-hub/api/api"
	"github.com/studyabroad-hub/api/config"
	"github.com/studyabroad-hub/api/database"
	"github.com/studyabroad-hub/api/identity"
	"github.com/studyabroad-hub/api/router"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Identity provider trust anchor. Without it the mutation endpoints
	// cannot be gated, so this is a startup failure.
	credentials, err := getEnv.ServiceAccountJSON()
	if err != nil {
		return err
	}
	verifier, err := identity.NewGoogleVerifier(credentials)
	if err != nil {
		return err
	}

	// Initialize GORM database connection; fail fast when unreachable.
	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running and the connection settings are correct")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}

	defer store.Close()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, verifier, getEnv)

	// Start the Server
	return server.Run()
}
