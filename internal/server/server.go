// Package server implements the openchem HTTP API.
//
// The API exposes the canonicalization pipeline over three endpoints:
//
//	POST /v1/canonical        canonicalize a SMILES string
//	POST /v1/canonical/batch  canonicalize many SMILES strings at once
//	GET  /v1/render           depict a molecule as SVG, PNG or DOT
//	GET  /healthz             liveness probe
//	GET  /version             build information
//
// Every request is tagged with a request id (X-Request-ID) and logged with
// method, path, status and duration. Handlers share one pipeline.Runner,
// so CLI and API behavior stay identical.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajeshg/openchem/pkg/pipeline"
)

// Server holds the shared state for all HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around an existing pipeline runner.
// If logger is nil, the runner's logger is used.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/canonical", s.handleCanonical)
		r.Post("/canonical/batch", s.handleCanonicalBatch)
		r.Get("/render", s.handleRender)
	})

	return r
}
