package api

import (
	"log"
	"net/http"
	"time"

	"inkwell-backend/internal/config"
	"inkwell-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler     *handlers.AuthHandler
	PromptHandler   *handlers.PromptHandler
	GenerateHandler *handlers.GenerateHandler
	Config          *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Generation responses stream for as long as the upstream model keeps
	// producing tokens, so the blanket request timeout stays well above the
	// typical completion time.
	r.Use(middleware.Timeout(5 * time.Minute))

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		// --- Mount Prompt Routes ---
		if deps.PromptHandler != nil {
			r.Route("/prompts", func(r chi.Router) {
				r.Post("/", deps.PromptHandler.HandleCreatePrompt)
				r.Get("/", deps.PromptHandler.HandleListPrompts)
				r.Get("/{promptID}", deps.PromptHandler.HandleGetPrompt)
				r.Put("/{promptID}", deps.PromptHandler.HandleUpdatePrompt)
				r.Delete("/{promptID}", deps.PromptHandler.HandleDeletePrompt)
			})
		} else {
			log.Println("WARN: PromptHandler dependency is nil, skipping /v1/prompts routes.")
		}

		// --- Mount Generation Route ---
		if deps.GenerateHandler != nil {
			r.Post("/generate", deps.GenerateHandler.HandleGenerate)
		} else {
			log.Println("WARN: GenerateHandler dependency is nil, skipping /v1/generate route.")
		}
	})

	return r
}
