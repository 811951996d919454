package main

import (
	"log"

	"goclean/internal/api"
	"goclean/internal/config"
	"goclean/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server := api.NewServer(appContainer)
	log.Printf("Starting goclean server on port %s (uploads in %s)", appConfig.Server.Port, appConfig.Storage.UploadDir)
	log.Fatal(server.Run(":" + appConfig.Server.Port))
}
