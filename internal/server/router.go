package server

import (
	"net/http"

	"github.com/fiston-user/musicez-api/internal/api"
	"github.com/fiston-user/musicez-api/internal/api/handlers"
	"github.com/fiston-user/musicez-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/recommendations", func(r chi.Router) {
		r.Post("/", cfg.RecommendationHandler.Generate)
		r.Post("/batch", cfg.RecommendationHandler.GenerateBatch)
	})

	return r
}
