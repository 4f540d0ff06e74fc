// Package web provides the JSON HTTP API over the content engine.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhiver/doxyde-sub000/adapters/metrics"
	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
)

// Handler provides the HTTP API endpoints.
type Handler struct {
	engine    *app.Engine
	collector *metrics.Collector
	logger    zerolog.Logger
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Engine    *app.Engine
	Collector *metrics.Collector // nil disables the /metrics endpoint
	Logger    zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		engine:    deps.Engine,
		collector: deps.Collector,
		logger:    deps.Logger.With().Str("component", "web").Logger(),
	}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requestLogger)

	r.Get("/healthz", h.Health)
	if h.collector != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/pages", func(r chi.Router) {
			r.Post("/", h.PageCreate)
			r.Get("/", h.PageTree)
			r.Get("/search", h.PageSearch)
			r.Get("/by-path", h.PageByPath)

			r.Route("/{pageID}", func(r chi.Router) {
				r.Get("/", h.PageGet)
				r.Patch("/", h.PageUpdate)
				r.Delete("/", h.PageDelete)
				r.Post("/move", h.PageMove)

				r.Get("/versions", h.VersionList)
				r.Post("/draft", h.DraftGetOrCreate)
				r.Get("/draft", h.DraftGet)
				r.Delete("/draft", h.DraftDiscard)
				r.Post("/publish", h.DraftPublish)
				r.Get("/published", h.PublishedGet)
				r.Get("/components", h.PageComponents)
			})
		})

		r.Route("/components", func(r chi.Router) {
			r.Post("/", h.ComponentCreate)
			r.Route("/{componentID}", func(r chi.Router) {
				r.Get("/", h.ComponentGet)
				r.Patch("/", h.ComponentUpdate)
				r.Delete("/", h.ComponentDelete)
				r.Post("/move-after/{targetID}", h.ComponentMoveAfter)
				r.Post("/move-before/{targetID}", h.ComponentMoveBefore)
			})
		})
	})

	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if h.collector != nil {
			h.collector.RequestsInFlight.Inc()
			defer h.collector.RequestsInFlight.Dec()
		}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if h.collector != nil {
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			h.collector.RequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
			h.collector.RequestDuration.WithLabelValues(r.Method, pattern).Observe(elapsed.Seconds())
		}

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the engine error taxonomy onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	msg := "an internal error occurred"

	switch kind := errs.KindOf(err); kind {
	case errs.KindNotFound:
		status, code, msg = http.StatusNotFound, string(kind), err.Error()
	case errs.KindConflict:
		status, code, msg = http.StatusConflict, string(kind), err.Error()
	case errs.KindInvalidState:
		status, code, msg = http.StatusUnprocessableEntity, string(kind), err.Error()
	case errs.KindInvalidInput:
		status, code, msg = http.StatusBadRequest, string(kind), err.Error()
	default:
		h.logger.Error().Err(err).Msg("internal error")
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.InvalidInput("invalid request body: %s", err)
	}
	return nil
}
