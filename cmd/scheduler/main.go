package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/nanobio/backend/internal/config"
	"github.com/nanobio/backend/internal/logger"
	"github.com/nanobio/backend/internal/models"
	"github.com/nanobio/backend/internal/realtime"
	"github.com/nanobio/backend/internal/repositories"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// profileStore is the profile access needed by the streak lapse job
type profileStore interface {
	ResetLapsedStreaks(ctx context.Context, cutoff time.Time) ([]string, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting NanoBio Progress Scheduler")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	profileRepo := repositories.NewProfileRepository(db)

	// Publish streak resets on the profile change feed
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	feed := realtime.NewFeed(redisClient, cfg.Redis.FeedChannel, logger.Logger)

	c := cron.New()
	_, err = c.AddFunc(cfg.Scheduler.StreakLapseCron, func() {
		resetLapsedStreaks(profileRepo, feed)
	})
	if err != nil {
		logger.Logger.Fatal("Failed to schedule streak lapse job", zap.Error(err))
	}

	c.Start()
	logger.Logger.Info("Streak lapse job scheduled", zap.String("schedule", cfg.Scheduler.StreakLapseCron))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down scheduler...")

	// Wait for a running job to finish
	<-c.Stop().Done()

	logger.Logger.Info("Scheduler exited")
}

// resetLapsedStreaks zeroes streaks for profiles with no activity yesterday or
// today, and publishes the updated profiles on the change feed
func resetLapsedStreaks(profileRepo profileStore, feed *realtime.Feed) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// A streak survives as long as the last activity was yesterday or later
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	ids, err := profileRepo.ResetLapsedStreaks(ctx, cutoff)
	if err != nil {
		logger.Logger.Error("Failed to reset lapsed streaks", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		logger.Logger.Info("No lapsed streaks found")
		return
	}

	logger.Logger.Info("Reset lapsed streaks", zap.Int("count", len(ids)))

	for _, id := range ids {
		profile, err := profileRepo.GetByID(ctx, id)
		if err != nil || profile == nil {
			logger.Logger.Warn("Failed to load profile after streak reset", zap.String("profile_id", id), zap.Error(err))
			continue
		}
		if err := feed.Publish(ctx, profile); err != nil {
			logger.Logger.Warn("Failed to publish streak reset", zap.String("profile_id", id), zap.Error(err))
		}
	}
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
