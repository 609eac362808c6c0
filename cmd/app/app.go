package app

import (
	"log"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/repository"
	"postboard/internal/service"
	"postboard/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *service.Service) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Could not connect to DB: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Could not initialize MinIO: %v", err)
	}

	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, minioClient, auth.ContextGate{})

	return db, services
}
