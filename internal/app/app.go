// Package app assembles the service from configuration and runs it until
// an interrupt arrives.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/config"
	"github.com/iliyamo/room-escape-reservation/internal/database"
	"github.com/iliyamo/room-escape-reservation/internal/handler"
	"github.com/iliyamo/room-escape-reservation/internal/logger"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
	"github.com/iliyamo/room-escape-reservation/internal/router"
	"github.com/iliyamo/room-escape-reservation/internal/service"
	"github.com/iliyamo/room-escape-reservation/internal/validate"
)

const shutdownTimeout = 5 * time.Second

// Run blocks until SIGINT or SIGTERM, then drains the HTTP server and the
// event consumer.
func Run(cfg config.Config) error {
	log := logger.New(cfg.LogLevel, "room-escape")
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events service.EventPublisher = queue.NopPublisher{}
	consumerDone := make(chan struct{})
	if cfg.Events {
		events = queue.NewPublisher(cfg.AMQPURL, log)
		go func() {
			defer close(consumerDone)
			if err := queue.NewConsumer(cfg.AMQPURL, cfg.EventLogDir, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	e, err := newServer(ctx, cfg, db, rdb, events, log)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	log.Info("http server start", zap.String("addr", addr), zap.String("env", cfg.Env))
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server run", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("graceful shutdown")

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(closeCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	select {
	case <-consumerDone:
	case <-closeCtx.Done():
		log.Warn("event consumer did not stop in time")
	}
	log.Info("graceful shutdown finished")
	return nil
}

func newServer(ctx context.Context, cfg config.Config, db *sql.DB, rdb *redis.Client, events service.EventPublisher, log *zap.Logger) (*echo.Echo, error) {
	members := repository.NewMemberRepo(db)
	themes := repository.NewThemeRepo(db)
	times := repository.NewTimeSlotRepo(db)
	reservations := repository.NewReservationRepo(db)

	memberSvc := service.NewMemberService(members, cfg.BcryptCost, log)
	if err := memberSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPass); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	themeSvc := service.NewThemeService(themes, reservations, log)
	timeSvc := service.NewTimeService(times, reservations, log)
	rankSvc := service.NewRankService(reservations)
	reservationSvc := service.NewReservationService(members, times, themes, reservations, events, log)

	clock := service.SystemClock{Location: cfg.Location}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.NewCustomValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	session := middleware.Session(cfg.JWTSecret, clock.Now)
	rankCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, clock.Now, log)
	loginLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(memberSvc, cfg.JWTSecret, cfg.AccessTTLMin, cfg.Env == "prod", clock, log),
		session, loginLimit)
	router.RegisterCatalog(e,
		handler.NewCatalogHandler(themeSvc, timeSvc, log),
		handler.NewRankHandler(rankSvc, clock, cfg.RankLimit, log),
		session, rankCache)
	router.RegisterReservations(e, handler.NewReservationHandler(reservationSvc, clock, log), session)
	return e, nil
}
