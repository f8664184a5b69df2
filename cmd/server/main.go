package main // Entry point for the room reservation service

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}

	studentRepo := repository.NewStudentRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	svc := service.NewReservationService(studentRepo, roomRepo, bookingRepo, service.RealClock{}, publisher, logger)

	studentHandler := handler.NewStudentHandler(svc, cfg.JWTSecret, cfg.AccessTTLMin)
	roomHandler := handler.NewRoomHandler(svc)
	bookingHandler := handler.NewBookingHandler(svc)

	// Redis is optional: when unreachable both the response cache and the
	// rate limiter are disabled and the API serves everything directly.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, studentHandler)
	router.RegisterPublic(e, roomHandler, cacheMW)
	router.RegisterProtected(e, bookingHandler, roomHandler, studentHandler, cfg.JWTSecret, limitMW)

	go queue.StartConsumer(cfg.AMQPURL, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
