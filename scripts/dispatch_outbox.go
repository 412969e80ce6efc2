// Manually drain the outbox once.
//
// Dispatch normally runs inside the server on a cron schedule; this script is
// for operational use when the server is down or a backlog built up.
//
// Usage: go run scripts/dispatch_outbox.go

package main

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	outbox := service.NewOutboxService(repository.NewOutboxRepository(db))

	log.Println("Dispatching pending outbox events...")
	outbox.DispatchPending()
	log.Println("Done")
}
