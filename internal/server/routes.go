package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/middleware"
	"github.com/proyectoiso/recetario/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
//   - Health, version and metrics endpoints (unprotected)
//   - The static mount serving uploads and frontend assets
//   - Account endpoints (register, login, logout, session state) with an optional session
//   - Recipe, profile and weekly menu endpoints, which require a registered session
//
// Registration and login are rate limited per client when rate_limit.enabled is set.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(s.metrics.Middleware)
	r.Use(corsMiddleware(s.Config.CORS))
	r.Use(middleware.SecurityHeaders())

	r.NotFound(utils.NotFound)
	r.MethodNotAllowed(utils.MethodNotAllowed)

	// System routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.Handlers.SystemHandler.Health)
		r.Get(constants.VersionPath, s.Handlers.SystemHandler.Version)
		r.Method(http.MethodGet, constants.MetricsPath, s.metrics.Handler())

		fileServer := http.StripPrefix(constants.StaticPath, http.FileServer(http.Dir(s.Config.Storage.StaticDir)))
		r.Handle(constants.StaticPath+"/*", fileServer)
	})

	sessions := s.authProviders.Sessions

	// Account routes, usable as a guest
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.NoCache)
		r.Use(middleware.OptionalSessionAuth(sessions, sessions))

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(middleware.RateLimit(s.limiter, constants.RateLimitCategoryAuth))
			}
			r.Post(constants.RegisterPath, s.Handlers.AuthHandler.Register)
			r.Post(constants.LoginPath, s.Handlers.AuthHandler.Login)
		})

		r.Post(constants.LogoutPath, s.Handlers.AuthHandler.Logout)
		r.Get(constants.SessionStatePath, s.Handlers.AuthHandler.SessionState)
	})

	// Registered routes
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.NoCache)
		r.Use(middleware.SessionAuth(sessions))

		// Profile
		r.Get(constants.ProfilePath, s.Handlers.UserHandler.GetProfile)
		r.Post(constants.UpdateUserPath, s.Handlers.UserHandler.UpdateUser)
		r.Post(constants.ChangePasswordPath, s.Handlers.AuthHandler.ChangePassword)
		r.Post(constants.UploadPhotoPath, s.Handlers.UserHandler.UploadPhoto)
		r.Post(constants.DeletePhotoPath, s.Handlers.UserHandler.DeletePhoto)

		// Recipes
		r.Post(constants.CreateRecipePath, s.Handlers.RecipeHandler.Submit)
		r.Post(constants.SaveRecipePath, s.Handlers.RecipeHandler.Save)
		r.Post(constants.UnsaveRecipePath, s.Handlers.RecipeHandler.Unsave)
		r.Post(constants.DeleteRecipePath, s.Handlers.RecipeHandler.Delete)
		r.Post(constants.PublishRecipePath, s.Handlers.RecipeHandler.Publish)
		r.Get(constants.MyRecipesPath, s.Handlers.RecipeHandler.ListMine)
		r.Get(constants.CommunityPath, s.Handlers.RecipeHandler.ListCommunity)
		r.Get(constants.UserRecipesPath, s.Handlers.RecipeHandler.ListUser)
		r.Get(constants.SavedRecipesPath, s.Handlers.RecipeHandler.ListSaved)
		r.Get(constants.RecipeDetailPath, s.Handlers.RecipeHandler.Detail)
		r.Get(constants.RecipePDFPath, s.Handlers.RecipeHandler.ExportPDF)
		r.Get(constants.RecipeIDByNamePath, s.Handlers.RecipeHandler.IDForName)

		// Comments and ratings
		r.Post(constants.CommentRecipePath, s.Handlers.RecipeHandler.Comment)
		r.Post(constants.RateRecipePath, s.Handlers.RecipeHandler.Rate)
		r.Get(constants.RecipeRatingPath, s.Handlers.RecipeHandler.Rating)

		// Weekly menu
		r.Get(constants.MenuPath, s.Handlers.MenuHandler.Get)
		r.Delete(constants.MenuPath, s.Handlers.MenuHandler.Delete)
		r.Post(constants.MenuAutoPath, s.Handlers.MenuHandler.Generate)
		r.Post(constants.MenuManualPath, s.Handlers.MenuHandler.Save)
	})

	s.router = r
}

// GetRouter returns the configured router.
//
// Returns:
//   - The chi.Router implementation used by the server
//
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware builds the CORS middleware from the cors settings.
// Credentials are allowed when configured so the session cookies reach the API
// from the frontend origin.
//
// Parameters:
//   - settings: The allowed origins and the credentials flag
//
// Returns:
//   - A middleware function that adds CORS headers and answers preflight requests
func corsMiddleware(settings config.CORSSettings) func(http.Handler) http.Handler {
	log.Info().Strs("allowed_origins", settings.AllowedOrigins).Msg("Using CORS allowed origins")

	return cors.New(cors.Options{
		AllowedOrigins:   settings.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{constants.HeaderContentType, "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{constants.HeaderContentDisposition},
		AllowCredentials: settings.AllowCredentials,
		MaxAge:           300,
	}).Handler
}
