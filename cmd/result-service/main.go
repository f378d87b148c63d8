package main

import (
	"context"
	"log"
	"os"

	"result-service/internal/app"
	"result-service/internal/config"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := a.Run(); err != nil {
		os.Exit(1)
	}
}
