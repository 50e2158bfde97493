package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/http/handlers"
	mw "github.com/gatherly/events-api/internal/http/middleware"
	"github.com/gatherly/events-api/internal/mailer"
	"github.com/gatherly/events-api/internal/notify"
	"github.com/gatherly/events-api/internal/service"
	"github.com/gatherly/events-api/internal/storage/postgres"
	"github.com/gatherly/events-api/pkg/config"
	"github.com/gatherly/events-api/pkg/events"
	"github.com/gatherly/events-api/pkg/logger"
	pkgmw "github.com/gatherly/events-api/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.MigrateUp(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	mailService := mailer.New(cfg.Email)

	notifier := notify.New(eventBus, mailService)
	if err := notifier.Start(); err != nil {
		logger.Error("Failed to start notifier", "error", err)
		os.Exit(1)
	}

	store, err := postgres.NewStore(pool)
	if err != nil {
		logger.Error("Failed to build store", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(store, cfg)
	usersService := service.NewUsersService(store)
	eventsService := service.NewEventsService(store)
	securityService := service.NewSecurityService(store, cfg)

	h := handlers.New(authService, usersService, eventsService, eventBus, cfg.BaseURL)
	authMW := mw.NewAuth(securityService)
	limiter := mw.NewRateLimiter(pool, 10, time.Minute)

	go func() {
		for range time.Tick(time.Hour) {
			if n, err := limiter.CleanupExpired(ctx); err != nil {
				logger.Error("Rate limit cleanup failed", "error", err)
			} else if n > 0 {
				logger.Debug("Rate limit cleanup", "removed", n)
			}
		}
	}()

	r := chi.NewRouter()

	r.Use(pkgmw.RequestID)
	r.Use(pkgmw.Logging)
	r.Use(pkgmw.Health)
	r.Use(pkgmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.With(limiter.Middleware).Post("/signup", h.Signup)
		r.With(limiter.Middleware).Post("/login", h.Login)
		r.Get("/logout", h.Logout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authMW.RequireUser)
		r.Get("/me", h.Me)
		r.Patch("/me", h.UpdateMe)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireRole(domain.RoleOrganizer))
			r.Post("/", h.CreateEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})
	})

	r.Route("/registrations", func(r chi.Router) {
		r.Use(authMW.RequireUser)
		r.Get("/", h.ListRegistrations)
		r.Post("/", h.CreateRegistration)
		r.Delete("/{id}", h.DeleteRegistration)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting events API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
