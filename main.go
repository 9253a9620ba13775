package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"labtools/cmd"
	"labtools/internal/config"
	"labtools/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Logs default to stderr so stdout carries only result JSON
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	code := cmd.Execute()

	mainLog := logger.WithComponent("main")
	mainLog.Debug().Int("exit_code", code).Msg("labtools shutdown")
	os.Exit(code)
}
