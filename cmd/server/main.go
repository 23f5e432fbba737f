package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pinjamin/collections-engine/internal/config"
	"github.com/pinjamin/collections-engine/internal/handler"
	"github.com/pinjamin/collections-engine/internal/repository"
	"github.com/pinjamin/collections-engine/internal/service"
	"github.com/pinjamin/collections-engine/pkg/response"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	// Initialize service and handlers
	recalcService := service.NewRecalcService(loanRepo, paymentRepo, collectionRepo, redisClient, cfg)
	collectionsHandler := handler.NewCollectionsHandler(recalcService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(collectionsHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: response.LoggingMiddleware(router),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(collectionsHandler *handler.CollectionsHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/collections/run", collectionsHandler.RunBatch).Methods("POST")
	api.HandleFunc("/collections/stats", collectionsHandler.Stats).Methods("GET")
	api.HandleFunc("/collections/health", collectionsHandler.EngineHealth).Methods("GET")
	api.HandleFunc("/loans/{loanId}/recalculate", collectionsHandler.RecalculateLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", collectionsHandler.RecordPayment).Methods("POST")

	return router
}
