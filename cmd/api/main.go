package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ignitron2k25/ignitron-api/internal/config"
	"github.com/ignitron2k25/ignitron-api/internal/database"
	"github.com/ignitron2k25/ignitron-api/internal/handler"
	"github.com/ignitron2k25/ignitron-api/internal/middleware"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
	"github.com/ignitron2k25/ignitron-api/internal/router"
	"github.com/ignitron2k25/ignitron-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.College{}, &models.Event{}, &models.Result{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	eventRepo := repository.NewEventRepository(db)
	resultRepo := repository.NewResultRepository(db)

	leaderboardService := service.NewLeaderboardService(collegeRepo, redisClient, natsConn, service.LeaderboardConfig{
		SnapshotTTL:    cfg.SnapshotCacheTTL,
		ReaperInterval: cfg.ReaperInterval,
		IdleLimit:      cfg.ClientIdleLimit,
	}, logger)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	collegeService := service.NewCollegeService(collegeRepo, validate, logger)
	eventService := service.NewEventService(eventRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, eventRepo, collegeRepo, validate, leaderboardService, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	collegeHandler := handler.NewCollegeHandler(collegeService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	resultHandler := handler.NewResultHandler(resultService, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leaderboardService.Start(rootCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		CollegeHandler:     collegeHandler,
		EventHandler:       eventHandler,
		ResultHandler:      resultHandler,
		LeaderboardHandler: leaderboardHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		LoginRateLimit:     middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancel)
}

func waitForShutdown(app *fiber.App, cancel context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	cancel()
	log.Println("server stopped")
}
