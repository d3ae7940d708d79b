// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	POST /v1/dependency     body: dependency sentences, response: GraphML or SVG
//	POST /v1/constituency   body: bracketed trees, response: GraphML or SVG
//	GET  /healthz
//
// Layout settings are passed as query parameters (h_gap, v_gap, tags, smooth,
// indices, keep_indices, level_siblings, skip_invalid, format, sentence,
// detailed). Errors are JSON objects carrying the error code and message.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/treeml/pkg/observability"
	"github.com/matzehuels/treeml/pkg/pipeline"
)

// MaxBodyBytes bounds the size of an uploaded document.
const MaxBodyBytes = 32 << 20

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// Server serves conversions through a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New returns a server that converts with runner. A nil logger uses the
// runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/dependency", s.convert(pipeline.KindDependency))
		r.Post("/constituency", s.convert(pipeline.KindConstituency))
	})
	return r
}

// requestID keeps an incoming X-Request-ID or assigns a fresh UUID, echoes
// it on the response and stores it where chi's GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		dur := time.Since(start)
		observability.Server().OnRequest(r.Context(), route, ww.Status(), dur)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}
