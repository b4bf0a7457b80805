package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/database"
	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/notify"
	"github.com/iliyamo/event-ticket-reservation/internal/queue"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/router"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, closeNotifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}
	defer closeNotifier()

	h, users := buildHandlers(cfg, db, notifier)
	h.Health = &handler.HealthHandler{DB: db, Redis: rdb}

	if cfg.Seed.Enabled {
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		created, err := users.EnsureAdmin(sctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		cancel()
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		if created {
			log.Printf("seeded super admin %s", cfg.Seed.AdminEmail)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(glog.INFO)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, notify=%s)", addr, cfg.Env, cfg.Notify.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// buildNotifier picks the email transport named by NOTIFY_DRIVER.  The
// queue driver also starts the consumer that drains the queue through SMTP.
func buildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, func(), error) {
	switch cfg.Notify.Driver {
	case "smtp":
		s, err := notify.NewSMTPSender(cfg.Mail)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "queue":
		s, err := notify.NewSMTPSender(cfg.Mail)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			if err := queue.StartEmailConsumer(ctx, cfg.Queue, s); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("email-consumer stopped: %v", err)
			}
		}()
		p := queue.NewPublisher(cfg.Queue)
		return p, p.Close, nil
	default:
		return notify.LogNotifier{}, func() {}, nil
	}
}

func buildHandlers(cfg config.Config, db *sql.DB, notifier notify.Notifier) (router.Handlers, *service.UserService) {
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	users := service.NewUserService(userRepo, tokenRepo, notifier, cfg.BcryptCost, glog.New("users"))
	auth := service.NewAuthService(users, tokenRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	venues := service.NewVenueService(
		repository.NewStadiumRepo(db),
		repository.NewSportRepo(db),
		repository.NewTeamRepo(db),
	)

	sportRes := service.NewReservationService("sport",
		repository.NewReservationRepo(db, repository.SportCatalog), userRepo, notifier, glog.New("reservations"))
	generalRes := service.NewReservationService("general",
		repository.NewReservationRepo(db, repository.GeneralCatalog), userRepo, notifier, glog.New("general-reservations"))

	events := service.NewEventService(repository.NewEventRepo(db), venues, userRepo, sportRes)
	generalEvents := service.NewGeneralEventService(repository.NewGeneralEventRepo(db), userRepo, generalRes)

	reservations := handler.NewReservationHandler(sportRes)
	generalReservations := handler.NewReservationHandler(generalRes)

	return router.Handlers{
		Auth:                handler.NewAuthHandler(auth, users),
		Users:               handler.NewUserHandler(users),
		Venues:              handler.NewVenueHandler(venues),
		Events:              handler.NewEventHandler(events),
		GeneralEvents:       handler.NewGeneralEventHandler(generalEvents),
		Reservations:        reservations,
		GeneralReservations: generalReservations,
		MyReservations: &handler.MyReservationsHandler{Families: map[string]*handler.ReservationHandler{
			sportRes.Kind():   reservations,
			generalRes.Kind(): generalReservations,
		}},
	}, users
}
