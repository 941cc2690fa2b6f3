package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CodeCrafter-T/PrepMatrix---Interview-Preparation-Platform/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server holds all server dependencies
type Server struct {
	config               *Config
	repo                 *repository.GORMRepository
	authService          *AuthService
	authEndpoints        *AuthEndpoints
	aiEndpoints          *AIEndpoints
	experienceEndpoints  *ExperienceEndpoints
	preparationEndpoints *PreparationEndpoints
	userEndpoints        *UserEndpoints
}

// NewServer wires services and endpoints over repo. completion is the
// language-model client used for AI reviews.
func NewServer(config *Config, repo *repository.GORMRepository, completion CompletionClient) *Server {
	authService := NewAuthService(repo, config.JWT.Secret, config.IsProduction())
	reviews := NewReviewService(repo, NewReviewGenerator(completion))

	return &Server{
		config:               config,
		repo:                 repo,
		authService:          authService,
		authEndpoints:        NewAuthEndpoints(authService),
		aiEndpoints:          NewAIEndpoints(reviews),
		experienceEndpoints:  NewExperienceEndpoints(NewExperienceService(repo)),
		preparationEndpoints: NewPreparationEndpoints(NewPreparationService(repo)),
		userEndpoints:        NewUserEndpoints(reviews),
	}
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// An empty allow list installs no CORS handler, so browsers deny every
	// cross-origin request.
	if origins := allowedOriginList(s.config.CORS.AllowedOrigins); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           600,
		}))
	}

	// Health endpoint
	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.apiHandler)

		// Public routes
		s.authEndpoints.RegisterPublicRoutes(r)
		s.experienceEndpoints.RegisterPublicRoutes(r)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			s.authEndpoints.RegisterRoutes(r)
			s.aiEndpoints.RegisterRoutes(r)
			s.experienceEndpoints.RegisterRoutes(r)
			s.preparationEndpoints.RegisterRoutes(r)
			s.userEndpoints.RegisterRoutes(r)
		})
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// allowedOriginList splits the comma-separated CORS_ALLOWED_ORIGINS value
func allowedOriginList(allowedOriginsStr string) []string {
	var origins []string
	for _, origin := range strings.Split(allowedOriginsStr, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "up"

	if err := s.repo.Ping(r.Context()); err != nil {
		slog.Warn("Health check database ping failed", "error", err)
		dbStatus = "down"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status, "database": dbStatus})
}

func (s *Server) apiHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "PrepMatrix API", "version": "1.0.0"})
}
