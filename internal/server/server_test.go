package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vankampen/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(nil, nil, logger), logger, cfg)
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestCreateDiagram(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := post(t, s, "/api/v1/diagrams", `{"presentation": "a*b*c*d", "formats": ["dot", "edges"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp DiagramResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" {
		t.Error("missing ID")
	}
	if resp.Circuit != "b*c*d*a" {
		t.Errorf("Circuit = %q", resp.Circuit)
	}
	if resp.Stats.Bound != 1 {
		t.Errorf("Bound = %d", resp.Stats.Bound)
	}
	if !strings.HasPrefix(resp.Artifacts["dot"], "digraph G {") {
		t.Errorf("dot = %q", resp.Artifacts["dot"])
	}
	if resp.Artifacts["edges"] != "0 1\n1 2\n2 3\n3 0\n" {
		t.Errorf("edges = %q", resp.Artifacts["edges"])
	}
	if resp.Document == nil || resp.Document.Circuit != "b*c*d*a" {
		t.Errorf("Document = %+v", resp.Document)
	}
}

func TestCreateDiagramSplit(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := post(t, s, "/api/v1/diagrams",
		`{"presentation": "a*b*c*d\nc!*e*f", "not_sort": true, "split": true, "formats": ["edges"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp DiagramResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Components) != 1 || resp.Components[0].Nodes != 2 {
		t.Errorf("Components = %+v", resp.Components)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("request ID = %q", got)
	}
}

func TestCreateDiagramErrors(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", Config{}, `{"presentation":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", Config{}, `{"presentation": "a", "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty presentation", Config{}, `{"presentation": ""}`, http.StatusBadRequest, "INVALID_PRESENTATION"},
		{"bad format", Config{}, `{"presentation": "a*b", "formats": ["gif"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad algorithm", Config{}, `{"presentation": "a*b", "algorithm": "random"}`, http.StatusBadRequest, "INVALID_ALGORITHM"},
		{"deadlock", Config{}, `{"presentation": "a*b\nb!*a!\nx*y", "algorithm": "merging"}`, http.StatusUnprocessableEntity, "DEADLOCK"},
		{"too large", Config{MaxBodyBytes: 16}, `{"presentation": "a*b*c*d*e*f*g"}`, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.cfg)
			rec := post(t, s, "/api/v1/diagrams", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if got := decodeError(t, rec); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestRenderDiagramRejectsFormat(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := post(t, s, "/api/v1/diagrams/render?format=dot", `{"presentation": "a*b"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "INVALID_FORMAT" {
		t.Errorf("code = %q", got.Code)
	}
}

func TestRenderDiagramSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	s := newTestServer(t, Config{})
	rec := post(t, s, "/api/v1/diagrams/render", `{"presentation": "a*b*a'*b'"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<svg")) {
		t.Error("body is not SVG")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagrams", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}
