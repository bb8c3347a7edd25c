package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"challenges-service/internal/config"
	"challenges-service/internal/domain/repository"
	cronpkg "challenges-service/internal/infrastructure/cron"
	infradb "challenges-service/internal/infrastructure/db"
	"challenges-service/internal/infrastructure/kafka"
	"challenges-service/internal/infrastructure/memory"
	"challenges-service/internal/infrastructure/postgres"
	redisinfra "challenges-service/internal/infrastructure/redis"
	"challenges-service/internal/service"
	transport "challenges-service/internal/transport/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// App represents the application
type App struct {
	config      *config.Config
	httpServer  *transport.Server
	refresher   *cronpkg.LeaderboardRefresher
	dbPool      *pgxpool.Pool
	redisClient *goredis.Client
	events      repository.EventPublisher
}

// New creates a new application
func New() (*App, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Println("Configuration loaded successfully")

	// Initialize PostgreSQL connection pool
	ctx := context.Background()
	dbPool, err := infradb.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Println("Connected to PostgreSQL")

	// Initialize Redis (optional); without it the period guard falls back
	// to an in-process one and leaderboards are computed on every view.
	var (
		redisClient *goredis.Client
		guard       repository.PeriodGuard
		cache       repository.LeaderboardCache
	)
	if cfg.Redis.Enabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		guard = redisinfra.NewPeriodGuard(redisClient)
		cache = redisinfra.NewLeaderboardCache(redisClient)
		log.Println("Connected to Redis")
	} else {
		guard = memory.NewPeriodGuard()
		log.Println("Redis is disabled, using in-memory period guard")
	}

	// Initialize Kafka producer (optional)
	var events repository.EventPublisher
	if cfg.Kafka.Enabled {
		events = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("Kafka producer initialized for topic %s", cfg.Kafka.Topic)
	}

	// Initialize repositories
	challengeRepo := postgres.NewChallengeRepository(dbPool)
	membershipRepo := postgres.NewMembershipRepository(dbPool)
	confirmationRepo := postgres.NewConfirmationRepository(dbPool)
	awardRepo := postgres.NewAwardRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)

	// Initialize services
	achievementService := service.NewAchievementService(awardRepo, userRepo, events)
	challengeService := service.NewChallengeService(challengeRepo, membershipRepo, confirmationRepo, userRepo, achievementService)
	leaderboardService := service.NewLeaderboardService(
		confirmationRepo, membershipRepo, challengeRepo, userRepo, awardRepo,
		achievementService, guard, cache, cfg.Service.Timezone,
	)
	log.Println("Services initialized")

	// Initialize leaderboard refresher (if enabled)
	var refresher *cronpkg.LeaderboardRefresher
	if cfg.Scheduler.Enabled {
		refresher = cronpkg.NewLeaderboardRefresher(leaderboardService, challengeRepo, cfg.Scheduler.CheckInterval)
		log.Println("Leaderboard refresher initialized")
	} else {
		log.Println("Leaderboard refresher is disabled in configuration")
	}

	// Initialize HTTP server
	handler := transport.NewHandler(challengeService, achievementService, leaderboardService)
	httpServer := transport.NewServer(handler, &cfg.HTTP)

	return &App{
		config:      cfg,
		httpServer:  httpServer,
		refresher:   refresher,
		dbPool:      dbPool,
		redisClient: redisClient,
		events:      events,
	}, nil
}

// Run starts the application
func (a *App) Run() error {
	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start leaderboard refresher if enabled
	if a.refresher != nil {
		if err := a.refresher.Start(); err != nil {
			return fmt.Errorf("failed to start leaderboard refresher: %w", err)
		}
	}

	// Start HTTP server in a goroutine
	go func() {
		if err := a.httpServer.Start(); err != nil {
			log.Printf("HTTP server error: %v", err)
			quit <- syscall.SIGTERM
		}
	}()

	log.Printf("%s started on port %d", a.config.Service.Name, a.config.HTTP.Port)

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down...")

	// Graceful shutdown
	a.httpServer.Stop()

	// Stop leaderboard refresher
	if a.refresher != nil {
		a.refresher.Stop()
	}

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			log.Printf("Error closing event producer: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	// Close database pool
	a.dbPool.Close()

	log.Println("Shutdown complete")
	return nil
}
