package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/vankampen/pkg/buildinfo"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/generate"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// DiagramResponse is the body returned by POST /api/v1/diagrams.
//
// Artifacts holds every requested format as text; PNG data is base64
// encoded.
type DiagramResponse struct {
	ID         string            `json:"id"`
	Cached     bool              `json:"cached"`
	Circuit    string            `json:"circuit"`
	Stats      generate.Stats    `json:"stats"`
	Document   *vkio.Document    `json:"document"`
	Artifacts  map[string]string `json:"artifacts"`
	Components []ComponentInfo   `json:"components,omitempty"`
}

// ComponentInfo describes one split component.
type ComponentInfo struct {
	Index     int               `json:"index"`
	Nodes     int               `json:"nodes"`
	Edges     int               `json:"edges"`
	Artifacts map[string]string `json:"artifacts"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatDOT}
	}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := DiagramResponse{
		ID:        res.ID,
		Cached:    res.CacheInfo.DiagramHit,
		Circuit:   res.Circuit.String(),
		Stats:     res.Stats,
		Document:  res.Document,
		Artifacts: encodeArtifacts(res.Artifacts),
	}
	for _, p := range res.Components {
		resp.Components = append(resp.Components, ComponentInfo{
			Index:     p.Index,
			Nodes:     p.Nodes,
			Edges:     p.Edges,
			Artifacts: encodeArtifacts(p.Artifacts),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRenderDiagram answers with the image alone. The format query
// parameter selects svg (default) or png.
func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	contentType, ok := imageTypes[format]
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "render supports svg and png, got %q", format))
		return
	}

	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}
	opts.Split = false

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

var imageTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge,
				errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", maxErr.Limit))
			return opts, false
		}
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return opts, false
	}
	// API runs never report progress.
	opts.Quiet = true
	return opts, true
}

func (s *Server) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	opts.Logger = s.logger.With("request_id", requestIDFrom(ctx))
	return s.runner.Execute(ctx, opts)
}

func encodeArtifacts(artifacts map[string][]byte) map[string]string {
	out := make(map[string]string, len(artifacts))
	for format, data := range artifacts {
		if format == pipeline.FormatPNG {
			out[format] = base64.StdEncoding.EncodeToString(data)
			continue
		}
		out[format] = string(data)
	}
	return out
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = 499
	}
	s.writeErrorStatus(w, r, status, err)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := string(errs.GetCode(err))
	if code == "" {
		code = string(errs.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", requestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   errs.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
