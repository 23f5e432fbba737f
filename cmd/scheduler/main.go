package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pinjamin/collections-engine/internal/config"
	"github.com/pinjamin/collections-engine/internal/repository"
	"github.com/pinjamin/collections-engine/internal/service"
	"github.com/redis/go-redis/v9"

	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting collections scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	recalcService := service.NewRecalcService(loanRepo, paymentRepo, collectionRepo, redisClient, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to local: %v", cfg.Scheduler.Timezone, err)
		location = time.Local
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Nightly DPD recalculation over the whole active-loan population
	_, err = c.AddFunc(cfg.Scheduler.CronSpec, func() {
		log.Println("Running DPD recalculation batch...")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		summary, err := recalcService.RunBatch(ctx, time.Now())
		if err != nil {
			log.Printf("Recalculation batch failed: %v", err)
			return
		}

		log.Printf("Recalculation batch finished: processed=%d updated=%d errors=%d",
			summary.ProcessedCount, summary.UpdatedCount, summary.ErrorCount)
	})
	if err != nil {
		log.Fatalf("Error scheduling recalculation batch: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}
