package main

import (
	"log"
	"net/http"

	"transit_issues/internal/auth"
	"transit_issues/internal/config"
	"transit_issues/internal/controllers"
	"transit_issues/internal/logger"
	"transit_issues/internal/repo"
	"transit_issues/internal/routes"
	"transit_issues/internal/storage"
	"transit_issues/internal/storage/gormstore"
	"transit_issues/internal/storage/memstore"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(cfg.LogFile)

	// Pick the persistence backend
	var store storage.Store
	switch cfg.Store {
	case "memory":
		store = memstore.New()
	default:
		s, err := gormstore.Open(cfg.DSN)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		store = s
	}

	// Pick the identity verifier
	var verifier auth.Verifier
	switch cfg.AuthMode {
	case "local":
		verifier = auth.NewLocalVerifier(cfg.JWTSecret)
	default:
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	repository := repo.New(store)
	r := routes.SetupRouter(
		controllers.NewStopController(repository),
		controllers.NewIssueController(repository),
		controllers.NewAuthController(verifier),
		verifier,
	)

	log.Printf("🚀 Server running at :%s", cfg.Port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.Port, r))
}
