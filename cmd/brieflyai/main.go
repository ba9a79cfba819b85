package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brieflyai/backend/internal/config"
	"github.com/brieflyai/backend/internal/database"
	"github.com/brieflyai/backend/internal/identities"
	"github.com/brieflyai/backend/internal/security"
	"github.com/brieflyai/backend/internal/server"
	"github.com/brieflyai/backend/internal/summarize"
	"github.com/brieflyai/backend/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Create logger
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.NewLogger(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to the database and prepare the schema
	db, err := database.Connect(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Optional redis-backed login rate limiter
	var limiter *identities.LoginRateLimiter
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, login rate limiting disabled", zap.Error(err))
		} else {
			limiter = identities.NewLoginRateLimiter(redisClient, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
		}
		cancel()
	}

	// Create services
	tokens := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration(), cfg.JWT.Issuer)
	identitiesSvc, err := identities.NewService(zapLogger, db, tokens, limiter)
	if err != nil {
		zapLogger.Fatal("Failed to create identities service", zap.Error(err))
	}
	summarizeSvc := summarize.NewService(zapLogger, summarize.NewClient(cfg.Summarizer))

	// Create HTTP server
	srv := server.NewServer(zapLogger, cfg, identitiesSvc, summarizeSvc)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Info("Starting HTTP server",
			zap.String("addr", httpServer.Addr),
			zap.String("service", cfg.App.Title),
			zap.String("version", cfg.App.Version))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
}
