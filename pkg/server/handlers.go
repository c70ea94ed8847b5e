package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
	"github.com/vango-dev/nanohtml/pkg/play"
)

const contentTypeHTML = "text/html; charset=utf-8"

// handleEncode renders the nano document in the request body.
//
// Query parameters: format (json, jsonc or yaml; default jsonc), indent, eol
// and minify.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	format := nano.FormatJSONC
	if name := query.Get("format"); name != "" {
		format, err = nano.ParseFormat(name)
		if err != nil {
			s.writeError(w, r, errors.New("N021").Wrap(err))
			return
		}
	}

	data, err := nano.Decode(body, format)
	if err != nil {
		s.writeError(w, r, sourceError(err))
		return
	}

	opts, err := layoutOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.transformer(opts...).Encode(r.Context(), data)
	if err != nil {
		s.writeError(w, r, encodeError(err))
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	io.WriteString(w, out)
}

// handleDecode always answers 501: markup cannot be turned back into nano.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, err = s.transformer().Decode(r.Context(), string(body))
	s.writeError(w, r, err)
}

type demoInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleDemos(w http.ResponseWriter, r *http.Request) {
	demos := play.Demos()
	list := make([]demoInfo, len(demos))
	for i, d := range demos {
		list[i] = demoInfo{Name: d.Name, Title: d.Title, Description: d.Description}
	}
	writeJSON(w, http.StatusOK, list)
}

type demoResult struct {
	demoInfo
	Source json.RawMessage `json:"source"`
	HTML   string          `json:"html"`
}

// handleDemo renders one demo. With ?view=json the source and markup are
// returned together.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	d, err := play.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := layoutOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts = append([]html.Option{html.WithEncoder(s.encoder)}, opts...)

	out, err := d.Transformer(opts...).Encode(r.Context(), d.Data)
	if err != nil {
		s.writeError(w, r, encodeError(err))
		return
	}

	if r.URL.Query().Get("view") != "json" {
		w.Header().Set("Content-Type", contentTypeHTML)
		io.WriteString(w, out)
		return
	}

	src, err := json.Marshal(d.Data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, demoResult{
		demoInfo: demoInfo{Name: d.Name, Title: d.Title, Description: d.Description},
		Source:   src,
		HTML:     out,
	})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New("N081").
				WithDetail(fmt.Sprintf("Request bodies are limited to %d bytes.", tooLarge.Limit))
		}
		return nil, err
	}
	return body, nil
}

// layoutOptions reads the indent, eol and minify query parameters.
func layoutOptions(r *http.Request) ([]html.Option, error) {
	query := r.URL.Query()

	var opts []html.Option
	if query.Has("indent") {
		opts = append(opts, html.WithIndent(query.Get("indent")))
	}
	if query.Has("eol") {
		opts = append(opts, html.WithEOL(query.Get("eol")))
	}
	if v := query.Get("minify"); v != "" {
		minify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Newf(errors.CategoryServer, "invalid minify parameter %q", v)
		}
		if minify {
			opts = append(opts, html.WithMinify())
		}
	}
	return opts, nil
}

func sourceError(err error) error {
	ne := errors.New("N020").Wrap(err)
	var se *nano.SyntaxError
	if stderrors.As(err, &se) {
		ne.Location = &errors.Location{File: "body", Line: se.Line, Column: se.Column}
	}
	return ne
}

func encodeError(err error) error {
	switch {
	case stderrors.Is(err, nano.ErrUnsupportedValue):
		return errors.New("N002").Wrap(err)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.New("N003").Wrap(err)
	}
	return err
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var ne *errors.NanoError
	if !stderrors.As(err, &ne) {
		return http.StatusInternalServerError
	}
	switch ne.Code {
	case "N001":
		return http.StatusNotImplemented
	case "N002":
		return http.StatusUnprocessableEntity
	case "N003":
		return http.StatusServiceUnavailable
	case "N020", "N021":
		return http.StatusBadRequest
	case "N081":
		return http.StatusRequestEntityTooLarge
	case "N100":
		return http.StatusNotFound
	}
	if ne.Code == "" && ne.Category == errors.CategoryServer {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error *errors.NanoError `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ne := errors.FromError(err, "N080")
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: ne})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
