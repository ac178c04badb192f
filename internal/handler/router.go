package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/akward-edu/story-player/internal/handler/frames"
	sessionHandler "github.com/akward-edu/story-player/internal/handler/session"
	storyHandler "github.com/akward-edu/story-player/internal/handler/story"
	middlewarePkg "github.com/akward-edu/story-player/internal/middleware"
	"github.com/akward-edu/story-player/internal/service/catalog"
	sessionService "github.com/akward-edu/story-player/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(catalogSvc *catalog.Service, sessionSvc *sessionService.Service, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		storyHandler.New(catalogSvc).RegisterRoutes(api)
		sessionHandler.New(sessionSvc, log).RegisterRoutes(api)
		frames.New(sessionSvc, log).RegisterRoutes(api)
	})

	return r
}
