package api

import (
	"advisorchat-backend/internal/config"
	"advisorchat-backend/internal/handlers"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	SystemHandler   *handlers.SystemHandler
	CustomerHandler *handlers.CustomerHandler
	ChatHandler     *handlers.ChatHandlers
	ChartHandler    *handlers.ChartHandler
	Config          *config.Config
	Logger          zerolog.Logger
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()
	logger := deps.Logger

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Config.LLMTimeout + 30*time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// --- Public Routes ---
	if deps.SystemHandler != nil {
		r.Get("/", deps.SystemHandler.HandleRoot)
		r.Get("/health", deps.SystemHandler.HandleHealth)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
	}

	// --- API Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		if deps.Config.AuthEnabled() {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))
		} else {
			logger.Warn().Msg("JWT_SECRET is not set; advisor ids are taken from requests")
		}

		if deps.ChatHandler != nil {
			r.Route("/chat", func(r chi.Router) {
				r.Post("/message", deps.ChatHandler.HandleSendMessage)
				r.Post("/session", deps.ChatHandler.HandleCreateSession)
				r.Get("/sessions", deps.ChatHandler.HandleListSessions)
				r.Get("/history/{sessionID}", deps.ChatHandler.HandleGetHistory)
				r.Post("/session/{sessionID}/end", deps.ChatHandler.HandleEndSession)
				r.Delete("/session/{sessionID}", deps.ChatHandler.HandleDeleteSession)
			})
		} else {
			logger.Warn().Msg("ChatHandler dependency is nil, skipping /api/v1/chat routes.")
		}

		if deps.CustomerHandler != nil {
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", deps.CustomerHandler.HandleListCustomers)
				r.Post("/", deps.CustomerHandler.HandleCreateCustomer)
				r.Get("/{customerID}", deps.CustomerHandler.HandleGetCustomer)
				r.Delete("/{customerID}", deps.CustomerHandler.HandleDeleteCustomer)
				r.Post("/{customerID}/accounts", deps.CustomerHandler.HandleCreateAccount)
			})
		} else {
			logger.Warn().Msg("CustomerHandler dependency is nil, skipping /api/v1/customers routes.")
		}

		if deps.ChartHandler != nil {
			r.Post("/charts/generate", deps.ChartHandler.HandleGenerateChart)
		} else {
			logger.Warn().Msg("ChartHandler dependency is nil, skipping /api/v1/charts routes.")
		}
	})

	return r
}
