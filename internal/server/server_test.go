package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rajeshg/openchem/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	srv := httptest.NewServer(New(runner, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleCanonical(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/canonical", "application/json",
		strings.NewReader(`{"input": "OCC"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("X-Request-ID header should be set")
	}

	var body struct {
		Canonical string `json:"canonical"`
		InputHash string `json:"input_hash"`
		Atoms     int    `json:"atoms"`
		Bonds     int    `json:"bonds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Canonical != "CCO" {
		t.Errorf("canonical = %q, want %q", body.Canonical, "CCO")
	}
	if body.Atoms != 3 || body.Bonds != 2 {
		t.Errorf("atoms/bonds = %d/%d, want 3/2", body.Atoms, body.Bonds)
	}
	if len(body.InputHash) != 64 {
		t.Errorf("input_hash should be a sha256 hex string, got %q", body.InputHash)
	}
}

func TestHandleCanonicalErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed JSON", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing input", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad SMILES", `{"input": "C(C"}`, http.StatusUnprocessableEntity, "INVALID_SMILES"},
		{"unknown element", `{"input": "[Xx]"}`, http.StatusUnprocessableEntity, "INVALID_SMILES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/canonical", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestHandleCanonicalBatch(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/canonical/batch", "application/json",
		strings.NewReader(`{"inputs": ["OCC", "C(C", "c1ccccc1"]}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Input     string `json:"input"`
			Canonical string `json:"canonical"`
			Error     string `json:"error"`
			Code      string `json:"code"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(body.Results))
	}
	if body.Results[0].Canonical != "CCO" {
		t.Errorf("results[0] = %q, want CCO", body.Results[0].Canonical)
	}
	if body.Results[1].Code != "INVALID_SMILES" || body.Results[1].Error == "" {
		t.Errorf("results[1] should fail with INVALID_SMILES, got %+v", body.Results[1])
	}
	if body.Results[2].Canonical != "c1ccccc1" {
		t.Errorf("results[2] = %q, want c1ccccc1", body.Results[2].Canonical)
	}
}

func TestHandleCanonicalBatchEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/canonical/batch", "application/json",
		strings.NewReader(`{"inputs": []}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleRenderDOT(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/render?input=CCO&format=dot")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(string(data), "graph mol {") {
		t.Errorf("body should be a DOT graph, got %q", string(data[:20]))
	}
}

func TestHandleRenderErrors(t *testing.T) {
	srv := newTestServer(t)

	// Missing input
	resp, err := http.Get(srv.URL + "/v1/render?format=dot")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing input: status = %d, want 400", resp.StatusCode)
	}

	// Bad format
	resp, err = http.Get(srv.URL + "/v1/render?input=CCO&format=tiff")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad format: status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] == "" {
		t.Error("version should be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if id := resp.Header.Get("X-Request-ID"); id != "test-id-123" {
		t.Errorf("X-Request-ID = %q, want test-id-123", id)
	}
}
