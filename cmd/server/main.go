package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"agritrace/internal/compliance"
	"agritrace/internal/handler"
	"agritrace/internal/hscode"
	"agritrace/internal/repository/postgres"
	rediscache "agritrace/internal/repository/redis"
	"agritrace/pkg/config"
	"agritrace/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("compliance-service")

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting Compliance Service", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	// Database connection
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Info("Database connected", nil)

	// Redis connection
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Redis connected", nil)

	// Repositories
	entityLookup := postgres.NewEntityLookup(db)
	templateStore := postgres.NewTemplateStore(db)
	reportRepo := postgres.NewReportRepository(db)
	hsCodeRepo := postgres.NewHSCodeRepository(db)

	// Services
	sanitizer := compliance.NewSanitizer(cfg.Compliance.SanitizeTemplateData)
	mapper := compliance.NewMapper(entityLookup, cfg.Compliance, log)
	renderer := compliance.NewRenderer(templateStore, sanitizer, cfg.Compliance, log)
	complianceService := compliance.NewService(mapper, renderer, entityLookup, templateStore, reportRepo, log)

	hsCodeCache := rediscache.NewHSCodeCache(redisClient, cfg.Compliance.HSCodeCacheTTL)
	hsCodeService := hscode.NewService(hsCodeRepo, hsCodeCache, log)

	// Handlers
	complianceHandler := handler.NewComplianceHandler(complianceService, log)
	hsCodeHandler := handler.NewHSCodeHandler(hsCodeService, log)
	systemHandler := handler.NewSystemHandler(db, log)

	// Router
	router := mux.NewRouter()
	router.HandleFunc("/health", systemHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/compliance/reports", complianceHandler.GenerateReport).Methods(http.MethodPost)
	router.HandleFunc("/compliance/reports", complianceHandler.ListReports).Methods(http.MethodGet)
	router.HandleFunc("/compliance/reports/{id}/download", complianceHandler.DownloadReport).Methods(http.MethodGet)
	router.HandleFunc("/hscodes", hsCodeHandler.ListByRegulation).Methods(http.MethodGet)
	router.HandleFunc("/hscodes/{code}", hsCodeHandler.GetByCode).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped", nil)
}
