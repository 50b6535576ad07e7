// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cookmyshow/cmd"
	"cookmyshow/internal/data/filestore"
	"cookmyshow/internal/data/repository"
	"cookmyshow/internal/events"
	"cookmyshow/internal/seatlock"
	"cookmyshow/internal/tokenstore"
	"cookmyshow/internal/usecase"
	"cookmyshow/internal/wire"
	"cookmyshow/internal/worker"
	"cookmyshow/pkg/database"
	"cookmyshow/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const envFile = ".env"

func main() {
	if err := run(); err != nil {
		log.Fatalf("cookmyshow: %v", err)
	}
}

func run() error {
	// Load config
	config, err := utils.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	// Initialize logger
	logger, level, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()
	utils.WatchLogLevel(envFile, level, logger)

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("storage", config.Storage.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var repos *repository.Repository
	switch config.Storage.Driver {
	case utils.StorageDriverFile:
		store, err := filestore.Open(config.Storage.FilePath, logger)
		if err != nil {
			return fmt.Errorf("open file store: %w", err)
		}
		repos = store.Repository()
		logger.Info("File store opened", zap.String("path", config.Storage.FilePath))
	default:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repos = repository.NewRepository(db, logger)
		logger.Info("Database connected successfully")
	}

	deps := usecase.Deps{}

	// Seat holds and revoked tokens are shared across instances through Redis
	if config.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis %s: %w", config.Redis.Addr, err)
		}
		deps.Locker = seatlock.NewRedisLocker(rdb, logger, nil)
		deps.Tokens = tokenstore.NewRedisStore(rdb, logger, nil)
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	// Booking events
	var jobs []cmd.Job
	if config.AMQP.URL != "" {
		deps.Events = events.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Exchange, logger)
		if config.AMQP.Consume {
			jobs = append(jobs, events.NewConsumer(config.AMQP.URL, config.AMQP.Exchange, logger).Run)
		}
	} else {
		deps.Events = events.NewLogPublisher(logger)
	}
	defer deps.Events.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	if config.Admin.Email != "" && config.Admin.Password != "" {
		if err := app.Service.Auth.SeedAdmin(ctx, config.Admin.Email, config.Admin.Password); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	sweeper := worker.NewExpirySweeper(app.Service.Booking, config.Booking.SweepInterval, logger)
	jobs = append(jobs, sweeper.Run)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	return cmd.APIServer(ctx, app.Router, config.App.Port, jobs, logger)
}
