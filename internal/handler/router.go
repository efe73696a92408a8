package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	authservice "github.com/edgecraft/backend/internal/auth"
	authhandler "github.com/edgecraft/backend/internal/handler/auth"
	chathandler "github.com/edgecraft/backend/internal/handler/chat"
	concepthandler "github.com/edgecraft/backend/internal/handler/concept"
	dashboardhandler "github.com/edgecraft/backend/internal/handler/dashboard"
	reflectionhandler "github.com/edgecraft/backend/internal/handler/reflection"
	scenariohandler "github.com/edgecraft/backend/internal/handler/scenario"
	workshophandler "github.com/edgecraft/backend/internal/handler/workshop"
	"github.com/edgecraft/backend/internal/middleware"
	scenariomodel "github.com/edgecraft/backend/internal/model/scenario"
	chatservice "github.com/edgecraft/backend/internal/service/chat"
	reflectionservice "github.com/edgecraft/backend/internal/service/reflection"
	workshopservice "github.com/edgecraft/backend/internal/service/workshop"
	"github.com/edgecraft/backend/internal/store"
)

// Deps carries everything the router wires together. AI may be nil when
// no model is configured; the chat transports then degrade gracefully.
type Deps struct {
	Store      store.Store
	Sessions   *authservice.SessionStore
	Scenarios  scenariomodel.Store
	Chat       *chatservice.Service
	Reflection *reflectionservice.Service
	Workshop   *workshopservice.Service
	AI         chathandler.Conversationalist
	Log        *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authHandler := authhandler.New(deps.Store, deps.Sessions, deps.Log)
	scenarioHandler := scenariohandler.New(deps.Scenarios)
	chatHandler := chathandler.New(deps.Chat, deps.AI, deps.Log)
	reflectionHandler := reflectionhandler.New(deps.Reflection, deps.Log)
	conceptHandler := concepthandler.New(deps.Store, deps.Log)
	workshopHandler := workshophandler.New(deps.Workshop, deps.Log)
	dashboardHandler := dashboardhandler.New(deps.Store, deps.Log)

	authn := middleware.NewAuthenticator(deps.Sessions)

	r.Route("/api", func(api chi.Router) {
		authHandler.RegisterPublicRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(authn.RequireUser)

			authHandler.RegisterProtectedRoutes(protected)
			scenarioHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			reflectionHandler.RegisterRoutes(protected)
			conceptHandler.RegisterRoutes(protected)
			workshopHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
		})
	})

	return r
}
