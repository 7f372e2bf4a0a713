package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/sop-assistant/internal/api/middleware"
	"github.com/Rrens/sop-assistant/internal/config"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/llm"
	"github.com/Rrens/sop-assistant/internal/llm/gemini"
	"github.com/Rrens/sop-assistant/internal/llm/ollama"
	"github.com/Rrens/sop-assistant/internal/llm/openai"
	"github.com/Rrens/sop-assistant/internal/repository/postgres"
	"github.com/Rrens/sop-assistant/internal/repository/redis"
	"github.com/Rrens/sop-assistant/internal/security"
	"github.com/Rrens/sop-assistant/internal/service"
	"github.com/Rrens/sop-assistant/internal/storage"
)

// NewLLMRouter registers every completion provider that has credentials
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	llmRouter := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.OpenAI))
	}
	if cfg.Gemini.APIKey != "" {
		log.Info().Str("key_len", fmt.Sprintf("%d", len(cfg.Gemini.APIKey))).Msg("Registering Gemini provider")
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.Ollama))
	}

	if _, err := llmRouter.GetProvider(""); err != nil {
		log.Warn().Err(err).Msg("Default LLM provider unavailable, chat turns will fail")
	}

	return llmRouter
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, llmRouter *llm.Router) (http.Handler, error) {
	files, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.URLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	sopRepo := postgres.NewSopRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Initialize rate limiter and stats cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	statsCache := redis.NewStatsCache(redisClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	categoryService := service.NewCategoryService(categoryRepo, statsCache)
	sopService := service.NewSopService(sopRepo, statsCache)
	statsService := service.NewStatsService(statsRepo, statsCache)
	chatService := service.NewChatService(userRepo, sopRepo, sessionRepo, messageRepo, files, llmRouter)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Auth)
	userHandler := handler.NewUserHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	sopHandler := handler.NewSopHandler(sopService)
	statsHandler := handler.NewStatsHandler(statsService)
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(chatService)
	uploadHandler := handler.NewUploadHandler(files, cfg.Storage.MaxUploadBytes)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager, cfg.Auth.CookieName)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	// Uploaded screenshots
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		prefix := strings.TrimRight(files.URLPrefix(), "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(files.Dir())))))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(map[string]handler.Pinger{
			"database": db,
			"redis":    redisClient,
		}))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))
			r.Post("/upload", uploadHandler.UploadImage)

			r.Post("/chat", chatHandler.Chat)
			r.Route("/chat/history", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Get("/{sessionID}", sessionHandler.Get)
				r.Delete("/{sessionID}", sessionHandler.Delete)
			})

			// Knowledge base for agents
			r.Get("/sops", sopHandler.Browse)
			r.Get("/sops/{sopID}", sopHandler.Get)

			// Administration
			r.Route("/admin", func(r chi.Router) {
				r.Use(customMiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/stats", statsHandler.Get)
				r.Get("/chats", sessionHandler.ListAll)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", categoryHandler.List)
					r.Post("/", categoryHandler.Create)
					r.Put("/{categoryID}", categoryHandler.Update)
					r.Delete("/{categoryID}", categoryHandler.Delete)
				})

				r.Route("/sops", func(r chi.Router) {
					r.Get("/", sopHandler.List)
					r.Post("/", sopHandler.Create)

					r.Route("/{sopID}", func(r chi.Router) {
						r.Get("/", sopHandler.Get)
						r.Put("/", sopHandler.Update)
						r.Patch("/", sopHandler.Patch)
						r.Delete("/", sopHandler.Delete)
					})
				})
			})
		})
	})

	return r, nil
}

// noDirListing answers 404 for directory paths
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
