package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/plotfn/grapher/internal/logger"
)

// NewRouter wires the application routes and middleware around a Handler.
func NewRouter(h *Handler, allowedOrigins []string, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", h.Parse)
		r.Post("/evaluate", h.Evaluate)
		r.Post("/batch-evaluate", h.BatchEvaluate)
		r.Post("/parametric", h.Parametric)
		r.Post("/implicit", h.Implicit)
		r.Post("/surface", h.Surface)

		r.Route("/expressions", func(r chi.Router) {
			r.Get("/", h.ListExpressions)
			r.Post("/", h.SaveExpression)
			r.Get("/{name}", h.GetExpression)
			r.Delete("/{name}", h.DeleteExpression)
		})
	})

	r.Get("/health", h.Health)

	return r
}

// requestLogger logs one line per request through the service logger.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
