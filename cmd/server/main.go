package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avdeyev/cinema-booking/internal/clock"
	"github.com/avdeyev/cinema-booking/internal/config"
	"github.com/avdeyev/cinema-booking/internal/database"
	"github.com/avdeyev/cinema-booking/internal/handler"
	"github.com/avdeyev/cinema-booking/internal/pricing"
	"github.com/avdeyev/cinema-booking/internal/queue"
	"github.com/avdeyev/cinema-booking/internal/repository"
	"github.com/avdeyev/cinema-booking/internal/router"
	"github.com/avdeyev/cinema-booking/internal/service"
	"github.com/avdeyev/cinema-booking/migrations"
)

func main() {
	// Missing .env is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(context.Background(), db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	clk := clock.NewSystem()
	prices := pricing.Policy{
		ChildDiscountPct:   int64(cfg.PriceChildPct),
		StudentDiscountPct: int64(cfg.PriceStudentPct),
	}

	cinemas := repository.NewCinemaRepo(db)
	halls := repository.NewHallRepo(db)
	movies := repository.NewMovieRepo(db)
	screenings := repository.NewScreeningRepo(db)
	tickets := repository.NewTicketRepo(db)
	users := repository.NewUserRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	scheduler := service.NewScheduler(screenings, movies, halls)
	booking := service.NewBooking(screenings, halls, tickets, prices, clk)

	h := router.Handlers{
		Auth: &handler.AuthHandler{
			Users:      users,
			JWTSecret:  cfg.JWTSecret,
			TTLMinutes: cfg.AccessTTLMin,
			BcryptCost: cfg.BcryptCost,
		},
		Browse: &handler.BrowseHandler{
			Cinemas:    cinemas,
			Halls:      halls,
			Movies:     movies,
			Screenings: screenings,
			Tickets:    tickets,
			Clock:      clk,
		},
		Tickets: &handler.TicketHandler{
			Booking: booking,
			Tickets: tickets,
			Events:  queue.PublishTicketEvent,
		},
		Reviews:   &handler.ReviewHandler{Reviews: reviews, Movies: movies},
		Favorites: &handler.FavoriteHandler{Favorites: favorites, Movies: movies},
		Admin: &handler.AdminHandler{
			Cinemas:   cinemas,
			Halls:     halls,
			Movies:    movies,
			Scheduler: scheduler,
		},
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg.JWTSecret, rdb)

	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	go retentionSweep(tickets, clk, cfg.TicketRetentionDays)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// retentionSweep deletes settled tickets of long-finished screenings
// once a day.  Settled means cancelled or used; active tickets are
// never touched.
func retentionSweep(tickets *repository.TicketRepo, clk clock.Clock, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	run := func() {
		cutoff := clk.Now().AddDate(0, 0, -retentionDays)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := tickets.DeleteSettled(ctx, cutoff)
		if err != nil {
			log.Printf("retention sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("retention sweep: removed %d settled tickets before %s", n, cutoff.Format(time.RFC3339))
		}
	}
	run()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		run()
	}
}
