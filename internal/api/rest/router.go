// Package rest HTTP API дашборда: загрузка фото, поверхности before/after,
// подсказки при наведении и вопросы ассистенту.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	app "damage-dashboard/internal/application"
)

const serviceName = "damage-dashboard"

// Options настройки роутера.
type Options struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	// ComparisonWidth ограничение ширины панели в comparison.png, 0 без ограничения
	ComparisonWidth int
}

type handler struct {
	analyses        *app.AnalysisService
	maxUpload       int64
	comparisonWidth int
	newID           func() string
}

// NewRouter собирает chi-роутер со всеми маршрутами API.
func NewRouter(analyses *app.AnalysisService, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	h := &handler{
		analyses:        analyses,
		maxUpload:       opts.MaxUploadBytes,
		comparisonWidth: opts.ComparisonWidth,
		newID:           uuid.NewString,
	}
	return h.routes(opts)
}

func (h *handler) routes(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api/analyses", func(r chi.Router) {
		r.Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Delete("/", h.delete)
			r.Post("/image", h.upload)
			r.Get("/before.png", h.before)
			r.Get("/after.png", h.after)
			r.Get("/comparison.png", h.comparison)
			r.Post("/pointer", h.pointer)
			r.Post("/pointer/leave", h.pointerLeave)
			r.Post("/ask", h.ask)
		})
	})
	return r
}
