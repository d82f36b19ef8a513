// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gccheapcars/rental-api/internal/auth"
	"github.com/gccheapcars/rental-api/internal/handler"
	"github.com/gccheapcars/rental-api/internal/middleware"
	sqliteRepo "github.com/gccheapcars/rental-api/internal/repository/sqlite"
	"github.com/gccheapcars/rental-api/internal/service"
)

// Config holds server configuration. Using a struct (instead of individual
// parameters) keeps function signatures stable as options are added, and
// lets main.go load everything from env vars in one place.
type Config struct {
	Port           int
	DBPath         string
	JWTSecret      string
	AllowedOrigins []string
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down it
// must close the connection to flush the WAL and release the file lock;
// Start() handles that during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config.
//
// DEPENDENCY INJECTION & WIRING:
// The entire dependency chain is assembled here:
//  1. Open the database connection (sqlite.New)
//  2. Create per-entity repositories over that connection
//  3. Create the service layer with the repository interfaces
//  4. Create handlers with the services, and wire them to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete SQLite types), handlers get services
// (not repositories or the DB).
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured chi router, mainly so tests can drive the
// full middleware + handler stack through httptest without opening a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's database connection. Start() does this
// automatically; Close exists for callers that never Start (tests).
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                            → health check (plain text)
//	GET    /api/cars                    → list cars, ?available= filter
//	GET    /api/cars/{id}               → get one car
//	POST   /api/cars                    → add a car
//	PATCH  /api/cars/{id}               → partial update
//	PUT    /api/cars/{id}               → alias for PATCH
//	DELETE /api/cars/{id}               → remove a car         [admin]
//	POST   /api/enquiries               → contact form
//	POST   /api/auth/login              → email/password login
//	GET    /api/auth/me                 → current user          [auth]
//	GET    /api/enquiries               → list enquiries        [admin]
//	GET    /api/bookings                → list bookings         [admin]
//	POST   /api/bookings                → create booking        [admin]
//	PUT    /api/bookings/{id}/status    → booking lifecycle     [admin]
//	GET    /api/rentals/admin           → list rentals          [admin]
//	POST   /api/rentals                 → create rental         [admin]
//	PUT    /api/rentals/{id}/status     → rental lifecycle      [admin]
//	GET    /api/users                   → list users            [admin]
//	PUT    /api/users/{id}/role         → promote/demote        [admin]
//	GET    /api/admin/stats             → dashboard numbers     [admin]
//	GET    /api/admin/reports           → monthly report        [admin]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. CORS — answers preflights before anything else can reject them
// 5. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.AllowedOrigins))
	s.router.Use(middleware.Logger(s.logger))

	// === Auth infrastructure ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Repositories (all share the one connection) ===
	carRepo := sqliteRepo.NewCarRepo(s.db)
	userRepo := sqliteRepo.NewUserRepo(s.db)
	bookingRepo := sqliteRepo.NewBookingRepo(s.db)
	rentalRepo := sqliteRepo.NewRentalRepo(s.db)
	enquiryRepo := sqliteRepo.NewEnquiryRepo(s.db)
	statsRepo := sqliteRepo.NewStatsRepo(s.db)

	// === Services ===
	carService := service.NewCarService(carRepo, s.logger)
	authService := service.NewAuthService(userRepo, passwords, tokens, s.logger)
	bookingService := service.NewBookingService(bookingRepo, carRepo, s.logger)
	rentalService := service.NewRentalService(rentalRepo, carRepo, s.logger)
	enquiryService := service.NewEnquiryService(enquiryRepo, s.logger)
	userService := service.NewUserService(userRepo, s.logger)
	reportService := service.NewReportService(statsRepo)

	// === Handlers ===
	carHandler := handler.NewCarHandler(carService)
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	rentalHandler := handler.NewRentalHandler(rentalService)
	enquiryHandler := handler.NewEnquiryHandler(enquiryService)
	adminHandler := handler.NewAdminHandler(userService, reportService)

	// Health check for uptime monitors.
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "GC Cheap Car Rental API")
	})

	s.router.Route("/api", func(r chi.Router) {
		// --- Public routes: the website browses cars and sends enquiries
		// without logging in. ---
		r.Get("/cars", carHandler.List)
		r.Get("/cars/{id}", carHandler.Get)
		r.Post("/cars", carHandler.Create)
		r.Patch("/cars/{id}", carHandler.Update)
		r.Put("/cars/{id}", carHandler.Update)
		r.Post("/enquiries", enquiryHandler.Create)
		r.Post("/auth/login", authHandler.Login)

		// --- Authenticated (any role) ---
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/auth/me", authHandler.Me)
		})

		// --- Admin only ---
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireAdmin)

			r.Delete("/cars/{id}", carHandler.Delete)

			r.Get("/enquiries", enquiryHandler.List)

			r.Get("/bookings", bookingHandler.List)
			r.Post("/bookings", bookingHandler.Create)
			r.Put("/bookings/{id}/status", bookingHandler.UpdateStatus)

			r.Get("/rentals/admin", rentalHandler.ListAdmin)
			r.Post("/rentals", rentalHandler.Create)
			r.Put("/rentals/{id}/status", rentalHandler.UpdateStatus)

			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{id}/role", adminHandler.UpdateUserRole)

			r.Get("/admin/stats", adminHandler.Stats)
			r.Get("/admin/reports", adminHandler.Reports)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
