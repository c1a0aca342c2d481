// Package server provides the HTTP server for the REST API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/internal/infrastructure/http/handlers"
	"github.com/platemuse/v1/internal/infrastructure/http/middleware"
	"github.com/platemuse/v1/internal/infrastructure/security"
	"github.com/platemuse/v1/internal/ports/inbound"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	logger          *zap.Logger
	router          *chi.Mux
	server          *http.Server
	planningService inbound.PlanningService
	accountService  inbound.AccountService
	authService     *security.AuthService
	metrics         *middleware.Metrics
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	planningService inbound.PlanningService,
	accountService inbound.AccountService,
	authService *security.AuthService,
) *Server {
	s := &Server{
		config:          cfg,
		logger:          logger,
		planningService: planningService,
		accountService:  accountService,
		authService:     authService,
		metrics:         middleware.NewMetrics(),
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(s.metrics.Handler())
	r.Use(middleware.RateLimit(
		s.config.RateLimit.RequestsPerMin,
		s.config.RateLimit.BurstSize,
		s.config.RateLimit.Enable,
	))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))

	api := handlers.NewAPIHandlers(s.logger)
	r.MethodNotAllowed(api.MethodNotAllowed)

	r.Get("/health", api.HealthCheck)
	r.Get("/ready", api.ReadyCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r, api)
	})

	return r
}

// setupAPIRoutes configures REST API routes
func (s *Server) setupAPIRoutes(r chi.Router, api *handlers.APIHandlers) {
	planning := handlers.NewPlanningAPIHandlers(s.planningService, s.logger)
	accounts := handlers.NewAccountAPIHandlers(s.accountService, s.logger)

	r.Get("/tiers", api.TierCatalog)

	// Generation endpoints accept the caller's tier in the body and are
	// POST only
	r.Group(func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		r.Post("/plans/generate", planning.GenerateMealPlan)
		r.Post("/shopping-list", planning.GenerateShoppingList)
		r.Post("/nutrition/insights", planning.NutritionInsights)
		r.Post("/meals/swap", planning.SwapMeal)
	})

	r.Post("/auth/register", accounts.Register)

	// Account routes require a valid access token
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthenticateAPI(s.authService))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", accounts.GetProfile)
			r.Put("/preferences", accounts.UpdatePreferences)
			r.Put("/pantry", accounts.UpdatePantry)

			r.Route("/family-profiles", func(r chi.Router) {
				r.Get("/", accounts.ListFamilyProfiles)
				r.Put("/", accounts.UpsertFamilyProfile)
				r.Delete("/{id}", accounts.DeleteFamilyProfile)
			})

			r.Route("/meals", func(r chi.Router) {
				r.Get("/", accounts.ListMealHistory)
				r.Post("/", accounts.RecordMeal)
				r.Post("/{id}/reuse", accounts.ReuseMeal)
			})

			r.Route("/meal-plans", func(r chi.Router) {
				r.Get("/", accounts.ListMealPlans)
				r.Post("/", accounts.SaveMealPlan)
				r.Get("/active", accounts.GetActiveMealPlan)
			})

			r.Route("/shopping-lists", func(r chi.Router) {
				r.Get("/", accounts.ListShoppingLists)
				r.Post("/", accounts.SaveShoppingList)
			})
		})

		r.Route("/billing", func(r chi.Router) {
			r.Post("/upgrade-link", accounts.UpgradeLink)
			r.Post("/tier", accounts.ApplyTier)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
