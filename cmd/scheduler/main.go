package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/vigneshnagarajan93/MoneyPrinter/internal/platform"
	"github.com/vigneshnagarajan93/MoneyPrinter/scheduler"
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

	// Create a new cron scheduler
	c := cron.New()
	c.Start()
	defer c.Stop()

	s := scheduler.New(db, rdb, c, cfg.SeriesCron)
	if err := s.ScheduleActive(ctx); err != nil {
		log.Fatalf("Failed to schedule series: %v", err)
	}

	// This uses Pub/Sub, so only run one scheduler instance to avoid
	// scheduling duplicate cron jobs.
	log.Println("Scheduler started, waiting for messages...")
	s.Listen(ctx)
}
