package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/booking"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	queue_publisher "github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/sweeper"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
		Path:   cfg.DBPath,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Schema and reference data must be in place before anything serves
	// or sweeps: areas first, then tables, then reservations.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.InitSchema(initCtx, db, cfg.DBDriver); err != nil {
		cancelInit()
		log.Fatalf("init schema: %v", err)
	}
	if err := database.Seed(initCtx, db); err != nil {
		cancelInit()
		log.Fatalf("seed reference data: %v", err)
	}
	cancelInit()

	clock := booking.SystemClock{}
	policy := booking.NewPolicy(clock)
	policy.MaxPartySize = cfg.MaxPartySize
	policy.ClosingHour = cfg.ClosingHour
	policy.MinLead = cfg.MinLead
	policy.HoldTTL = cfg.HoldTTL
	policy.ExpireAccepted = cfg.ExpireAccepted
	policy.RequirePhone = cfg.RequirePhone

	areaRepo := repository.NewAreaRepo(db)
	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	catalog := handler.NewCatalogHandler(areaRepo, tableRepo)
	reservations := handler.NewReservationHandler(
		policy, tableRepo, reservationRepo, queue_publisher.PublishReservationEvent)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, catalog, reservations, rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background expiration sweep; stops with the process context.
	sw := sweeper.New(reservationRepo, cfg.SweepInterval, clock, cfg.ExpireAccepted,
		queue_publisher.PublishReservationEvent)
	go sw.Run(ctx)

	// Event consumer mirrors lifecycle events into logs/reservations.log.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("http server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
