package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"petcare-chat/config"
	"petcare-chat/internal/app"
)

func main() {
	// .env is optional for local development.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatalf("failed to run app: %v", err)
	}
}
