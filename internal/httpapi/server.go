package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"composegen/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Render(ctx context.Context, req types.RenderRequest) (types.RenderResponse, error)
}

// NewMux builds the render API router.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if c := corsMiddleware(); c != nil {
		r.Use(c)
	}
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/render", renderHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// renderHandler godoc
//
//	@Summary	Render docker-compose manifests for a cluster description
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.RenderRequest	true	"Cluster, image catalog and run options"
//	@Success	200		{object}	types.RenderResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	415		{object}	types.ErrorResponse
//	@Router		/render [post]
func renderHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			incRejected("content_type")
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// Oversized bodies land here too; do not leak the limit.
			incRejected("invalid_json")
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		id := uuid.NewString()
		lvl := requestLogLevel(r)
		log := logger().With().Str("render_id", id).Logger()
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			log = log.With().Str("request_id", rid).Logger()
		}
		start := time.Now()
		if lvl >= LevelInfo {
			log.Info().Str("path", r.URL.Path).Int("hosts", len(req.Hosts)).Msg("render start")
		}

		resp, err := svc.Render(r.Context(), req)
		if err != nil {
			status := statusOf(err)
			if status < http.StatusInternalServerError {
				incRejected("invalid_input")
			}
			if lvl >= LevelError {
				log.Error().Int("status", status).Dur("dur", time.Since(start)).Err(err).Msg("render end")
			}
			writeJSONError(w, status, err.Error())
			return
		}
		resp.ID = id

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			if lvl >= LevelError {
				log.Error().Err(err).Msg("encode response")
			}
			return
		}
		if lvl >= LevelInfo {
			log.Info().Int("status", http.StatusOK).Int("hosts", len(resp.Hosts)).
				Dur("dur", time.Since(start)).Msg("render end")
		}
	}
}
