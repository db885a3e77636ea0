// Package server provides the HTTP server of the recipe application.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server package follows a structured initialization approach with dependency injection
// and proper lifecycle management: stores → auth providers → repositories → services →
// handlers → routes. Shutdown drains in-flight requests before stopping background tasks.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/database"
	"github.com/proyectoiso/recetario/internal/handlers"
	"github.com/proyectoiso/recetario/internal/media"
	"github.com/proyectoiso/recetario/internal/metrics"
	"github.com/proyectoiso/recetario/internal/models"
	"github.com/proyectoiso/recetario/internal/repository"
	"github.com/proyectoiso/recetario/internal/service"
	"github.com/proyectoiso/recetario/internal/utils/ratelimit"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages registration, login and session endpoints
	AuthHandler *handlers.AuthHandler

	// UserHandler manages profile endpoints
	UserHandler *handlers.UserHandler

	// RecipeHandler manages recipe, bookmark, comment and rating endpoints
	RecipeHandler *handlers.RecipeHandler

	// MenuHandler manages the weekly menu endpoints
	MenuHandler *handlers.MenuHandler

	// SystemHandler manages health and version endpoints
	SystemHandler *handlers.SystemHandler
}

// AuthProviders contains all authentication providers for the application.
type AuthProviders struct {
	// Sessions signs and validates session cookies
	Sessions *auth.SessionService

	// Hasher hashes and verifies account passwords
	Hasher *auth.Argon2Hasher
}

// Stores contains the JSON files backing the repositories
type Stores struct {
	Accounts *database.Store[models.Account]
	Recipes  *database.Store[models.Recipe]
}

// Server represents the API server of the recipe application.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Stores provides the JSON stores
	Stores *Stores

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// repositories and services built on top of the stores
	repositories repositories
	services     services

	// limiter tracks per-client token buckets of the account endpoints
	limiter *ratelimit.Store

	// metrics exposes request counters on /metrics
	metrics *metrics.Metrics

	// httpServer is the underlying HTTP server
	httpServer *http.Server

	// stopMaintenance cancels the background tasks started by SetupMaintenanceTasks
	stopMaintenance context.CancelFunc
}

type repositories struct {
	accounts repository.AccountRepository
	recipes  repository.RecipeRepository
}

type services struct {
	auth    *service.AuthService
	profile *service.ProfileService
	recipe  *service.RecipeService
	menu    *service.MenuService
}

// NewServer creates a new server instance with all required components.
//
// Parameters:
//   - cfg: Application configuration including storage, server, and session settings
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupStores(); err != nil {
		return nil, fmt.Errorf("failed to set up stores: %w", err)
	}

	s.setupAuthProviders()
	s.setupRepositories()

	if err := s.setupServices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()

	s.metrics = metrics.New(!cfg.App.IsTesting())
	if cfg.RateLimit.Enabled {
		s.limiter = ratelimit.NewStore(ratelimit.Rate{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}, constants.RateLimiterIdleTTL)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Server.ServerAddress(),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupStores opens the JSON stores and creates the data and upload directories.
//
// Returns:
//   - An error if a directory cannot be created
func (s *Server) setupStores() error {
	storage := s.Config.Storage

	if err := os.MkdirAll(storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if isLocalDriver(s.Config.ObjectStore.Driver) {
		if err := os.MkdirAll(storage.UploadDir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	s.Stores = &Stores{
		Accounts: database.NewStore[models.Account](storage.AccountsPath()),
		Recipes:  database.NewStore[models.Recipe](storage.RecipesPath()),
	}

	log.Info().
		Str("accounts", s.Stores.Accounts.Path()).
		Str("recipes", s.Stores.Recipes.Path()).
		Msg("JSON stores ready")

	return nil
}

// setupAuthProviders initializes the session service and the password hasher.
func (s *Server) setupAuthProviders() {
	s.authProviders = &AuthProviders{
		Sessions: auth.NewSessionService(&s.Config.Session),
		Hasher:   auth.NewArgon2Hasher(auth.ConfigFromAppConfig(s.Config)),
	}
}

// setupRepositories initializes the account and recipe repositories over the stores.
func (s *Server) setupRepositories() {
	s.repositories = repositories{
		accounts: repository.NewAccountRepository(s.Stores.Accounts, s.authProviders.Hasher),
		recipes:  repository.NewRecipeRepository(s.Stores.Recipes),
	}
}

// setupServices initializes all business services.
//
// Parameters:
//   - ctx: Context used while connecting to the object store
//
// Returns:
//   - An error if the object store cannot be initialized
func (s *Server) setupServices(ctx context.Context) error {
	objectStore, err := media.NewObjectStore(ctx, s.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}
	intake := media.NewIntake(objectStore)

	s.services = services{
		auth: service.NewAuthService(
			s.repositories.accounts,
			s.authProviders.Hasher,
			service.NewEmailVerifier(s.Config.EmailVerification),
		),
		profile: service.NewProfileService(s.repositories.accounts, s.repositories.recipes, intake),
		recipe:  service.NewRecipeService(s.repositories.recipes, intake, s.Config.App.PublicBaseURL),
		menu:    service.NewMenuService(s.repositories.accounts, s.repositories.recipes),
	}

	return nil
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler:   handlers.NewAuthHandler(s.services.auth, s.authProviders.Sessions),
		UserHandler:   handlers.NewUserHandler(s.services.profile, s.authProviders.Sessions),
		RecipeHandler: handlers.NewRecipeHandler(s.services.recipe),
		MenuHandler:   handlers.NewMenuHandler(s.services.menu),
		SystemHandler: handlers.NewSystemHandler(s.Config.App.Version, s.Config.App.Environment,
			map[string]handlers.HealthChecker{
				constants.DefaultAccountsFile: s.Stores.Accounts,
				constants.DefaultRecipesFile:  s.Stores.Recipes,
			}),
	}
}

// Start starts the HTTP server and sets up signal handling for graceful shutdown.
// It runs in a blocking mode, waiting for either server errors or shutdown signals.
//
// Returns:
//   - An error if the server fails to start or encounters an error during operation
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Str("public_url", s.Config.App.PublicBaseURL).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopBackground()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, closing all connections properly.
// It ensures in-flight requests are completed before shutting down.
//
// Parameters:
//   - ctx: Context with timeout for the shutdown operation
//
// Returns:
//   - An error if shutdown fails within the context timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.stopBackground()
	log.Info().Msg("Server stopped gracefully")

	return nil
}

// SetupMaintenanceTasks starts the background tasks of the server.
// Idle rate limiters are swept every constants.RateLimiterSweepInterval.
func (s *Server) SetupMaintenanceTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopMaintenance = cancel

	if s.limiter != nil {
		go s.limiter.Run(ctx, constants.RateLimiterSweepInterval)
	}
}

// stopBackground cancels the maintenance tasks, if they were started
func (s *Server) stopBackground() {
	if s.stopMaintenance != nil {
		s.stopMaintenance()
		s.stopMaintenance = nil
	}
}

func isLocalDriver(driver string) bool {
	driver = strings.ToLower(driver)
	return driver == "" || driver == constants.StorageDriverLocal
}
