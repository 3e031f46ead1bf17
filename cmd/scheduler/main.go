package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/segyhp/club-engine/internal/cache"
	"github.com/segyhp/club-engine/internal/config"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	"github.com/segyhp/club-engine/internal/service"
)

// generationTimeout bounds one scheduled generation run.
const generationTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("scheduler", "Failed to load configuration: %v", err)
	}
	logger.SetDefault(logger.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format))
	logger.Info("scheduler", "Starting dues scheduler...")

	if !cfg.Scheduler.AutoGenerate {
		logger.Info("scheduler", "Automatic due generation is disabled, nothing to schedule")
		return
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("scheduler", "Failed to initialize database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	generator := service.NewGenerationService(
		repository.NewMemberRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewDueRepository(db),
		repository.NewTransactor(db),
		cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL),
		cfg.Location(),
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location()))

	if err := setupCronJobs(c, cfg, generator); err != nil {
		logger.Fatal("scheduler", "Error scheduling due generation: %v", err)
	}

	c.Start()
	logger.Info("scheduler", "Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler", "Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Info("scheduler", "Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, generator *service.GenerationService) error {
	baseValue := cfg.GetDefaultBaseValue()
	dueDay := cfg.Business.DefaultDueDay

	_, err := c.AddFunc(cfg.Scheduler.GenerateCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()

		logger.Info("scheduler", "Running monthly due generation job...")
		summary, err := generator.GenerateForMonth(ctx, time.Now(), baseValue, dueDay)
		if err != nil {
			logger.Error("scheduler", "Due generation failed: %v", err)
			return
		}
		logger.Info("scheduler", "Due generation for %s finished: %d created, %d already billed",
			summary.Period, summary.CreatedCount, summary.ExistingCount)
	})
	if err != nil {
		return err
	}

	logger.Info("scheduler", "Due generation scheduled with %q", cfg.Scheduler.GenerateCron)
	return nil
}
