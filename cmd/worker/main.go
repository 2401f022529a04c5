package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/vigneshnagarajan93/MoneyPrinter/internal/platform"
	"github.com/vigneshnagarajan93/MoneyPrinter/tasks"
	"github.com/vigneshnagarajan93/MoneyPrinter/worker"
)

func main() {
	cfg := platform.LoadConfig()

	// Use the shared initializers
	db := platform.NewDBConnection(cfg)
	rdb := platform.NewRedisClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := platform.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	pipeline, err := platform.NewPipeline(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	processor := worker.NewProcessor(db, rdb, pipeline, cfg.TempDir)
	processor.RegisterAll()

	log.Println("Worker started, waiting for queue tasks...")
	processor.Listen(ctx, tasks.Queues...)
}
