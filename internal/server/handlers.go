package server

import (
	"encoding/json"
	"net/http"

	"github.com/rajeshg/openchem/pkg/buildinfo"
	"github.com/rajeshg/openchem/pkg/cache"
	"github.com/rajeshg/openchem/pkg/errors"
	"github.com/rajeshg/openchem/pkg/pipeline"
)

// canonicalRequest is the body of POST /v1/canonical.
type canonicalRequest struct {
	Input    string `json:"input"`
	Kekulize bool   `json:"kekulize,omitempty"`
	Plain    bool   `json:"plain,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

// canonicalResponse is the reply of POST /v1/canonical.
type canonicalResponse struct {
	Canonical string `json:"canonical"`
	InputHash string `json:"input_hash"`
	Atoms     int    `json:"atoms"`
	Bonds     int    `json:"bonds"`
	Cached    bool   `json:"cached"`
}

// errorResponse is the JSON error envelope for all endpoints.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleCanonical(w http.ResponseWriter, r *http.Request) {
	var req canonicalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body: %v", err))
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "input is required"))
		return
	}

	opts := pipeline.Options{
		Input:    req.Input,
		Kekulize: req.Kekulize,
		Plain:    req.Plain,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	}

	m, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	canonical, cached, err := s.runner.CanonicalizeWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, canonicalResponse{
		Canonical: canonical,
		InputHash: cache.Hash([]byte(req.Input)),
		Atoms:     m.NumAtoms(),
		Bonds:     m.NumBonds(),
		Cached:    cached,
	})
}

// batchRequest is the body of POST /v1/canonical/batch. The option flags
// apply to every input.
type batchRequest struct {
	Inputs   []string `json:"inputs"`
	Kekulize bool     `json:"kekulize,omitempty"`
	Plain    bool     `json:"plain,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`
}

// batchItem is one entry of the batch reply, in input order. Exactly one of
// Canonical and Error is set.
type batchItem struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
}

// maxBatchSize bounds one batch request.
const maxBatchSize = 1000

func (s *Server) handleCanonicalBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body: %v", err))
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "inputs is required"))
		return
	}
	if len(req.Inputs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "at most %d inputs per batch", maxBatchSize))
		return
	}

	items := make([]batchItem, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		item := batchItem{Input: input}
		canonical, cached, err := s.runner.CanonicalizeWithCacheInfo(r.Context(), pipeline.Options{
			Input:    input,
			Kekulize: req.Kekulize,
			Plain:    req.Plain,
			Refresh:  req.Refresh,
			Logger:   s.logger,
		})
		if err != nil {
			item.Error = errors.UserMessage(err)
			item.Code = string(errors.GetCode(err))
		} else {
			item.Canonical = canonical
			item.Cached = cached
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, map[string][]batchItem{"results": items})
}

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("input") == "" {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "input query parameter is required"))
		return
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "%v", err))
		return
	}

	opts := pipeline.Options{
		Input:   q.Get("input"),
		Formats: []string{format},
		Layout:  q.Get("layout"),
		Logger:  s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

// statusFor maps pipeline errors to HTTP status codes. Validation and
// chemistry failures are client errors; everything else is a 500.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSMILES, errors.ErrCodeInvalidMolecule,
		errors.ErrCodeInvalidFormat, errors.ErrCodeUnknownElement, errors.ErrCodeKekulize:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
