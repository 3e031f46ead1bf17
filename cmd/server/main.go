package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/club-engine/internal/cache"
	"github.com/segyhp/club-engine/internal/config"
	"github.com/segyhp/club-engine/internal/handler"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	"github.com/segyhp/club-engine/internal/service"
	"github.com/segyhp/club-engine/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("server", "Failed to load configuration: %v", err)
	}
	logger.SetDefault(logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format))

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("server", "Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()
	dueCache, cachePinger := initCache(cfg, redisClient)

	proofStore, err := storage.NewLocalStore(cfg.Storage.ProofDir)
	if err != nil {
		logger.Fatal("server", "Failed to initialize proof storage: %v", err)
	}

	// Initialize repositories
	tx := repository.NewTransactor(db)
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	dueRepo := repository.NewDueRepository(db)
	compensationRepo := repository.NewCompensationRepository(db)

	// Initialize services
	memberService := service.NewMemberService(memberRepo, dueRepo)
	authService := service.NewAuthService(memberRepo, memberService, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	activityService := service.NewActivityService(activityRepo, memberRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, memberRepo, activityRepo)
	compensationService := service.NewCompensationService(compensationRepo, memberRepo, activityRepo)
	dueService := service.NewDueService(dueRepo, tx, proofStore, dueCache, cfg.Storage.ProofMaxBytes)
	generationService := service.NewGenerationService(memberRepo, enrollmentRepo, dueRepo, tx, dueCache, cfg.Location())

	// Setup routes
	validator := handler.NewValidator()
	router := handler.NewRouter(handler.Handlers{
		Health: handler.NewHealthHandler(
			handler.PingFunc(db.PingContext), cachePinger, cfg.Health.Timeout),
		Auth:          handler.NewAuthHandler(authService, validator, cfg.Auth.CookieName, cfg.IsProduction()),
		Members:       handler.NewMemberHandler(memberService, validator),
		Activities:    handler.NewActivityHandler(activityService, validator),
		Enrollments:   handler.NewEnrollmentHandler(enrollmentService, validator),
		Compensations: handler.NewCompensationHandler(compensationService, validator),
		Dues: handler.NewDueHandler(dueService, generationService, validator,
			cfg.Business.DefaultDueDay, cfg.Storage.ProofMaxBytes),
	})

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server", "Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", "Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server", "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server", "Server forced to shutdown: %v", err)
	}

	logger.Info("server", "Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// initCache falls back to an uncached listing when redis is unreachable at startup.
func initCache(cfg *config.Config, client *redis.Client) (service.DueCache, handler.Pinger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Health.Timeout)
	defer cancel()

	redisCache := cache.NewRedisCache(client, cfg.Redis.CacheTTL)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("server", "Redis unavailable, overdue listing will not be cached: %v", err)
		return cache.Noop{}, nil
	}
	return redisCache, redisCache
}
