// Package server exposes the formatter over HTTP for editor integrations.
//
// Every endpoint takes the whole document and returns edits against it, the
// same shape an editor's formatting provider expects:
//
//	POST /v1/format  {"text": "..."}                    -> {"info", "edits", "text"}
//	POST /v1/width   {"text": "...", "width": 6}        -> {"info", "edits", "text"}
//	POST /v1/layer   {"text": "...", "placeholder": "_"} -> {"value"}
//	POST /v1/layer   {"text": "...", "name": "nav"}     -> {"info", "edits", "text"}
//	GET  /healthz
//
// Errors are returned as {"error", "code"}: 400 for malformed requests, 422
// for documents the formatter rejects.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	"github.com/matzehuels/kmonadfmt/pkg/buildinfo"
	"github.com/matzehuels/kmonadfmt/pkg/config"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/format"
	"github.com/matzehuels/kmonadfmt/pkg/observability"
	"github.com/matzehuels/kmonadfmt/pkg/sexpr"
	"github.com/matzehuels/kmonadfmt/pkg/textpos"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// RequestIDHeader carries the per-request id on responses.
const RequestIDHeader = "X-Request-Id"

// Server handles formatting requests. It is safe for concurrent use.
type Server struct {
	parser *sexpr.Parser
	cfg    *config.Config
	logger *log.Logger
	router chi.Router
}

// New creates a server. Request fields left empty fall back to cfg.
func New(cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		parser: sexpr.NewParser(),
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/format", s.handleFormat)
		r.Post("/width", s.handleWidth)
		r.Post("/layer", s.handleLayer)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// requestID tags every request with a fresh UUID, echoed in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", RequestID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// Request is the body of every /v1 endpoint.
type Request struct {
	Text        string `json:"text"`
	Width       int    `json:"width,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Name        string `json:"name,omitempty"`
	Columns     string `json:"columns,omitempty"`
}

// Response is the success body of every /v1 endpoint.
type Response struct {
	Info    string         `json:"info,omitempty"`
	Edits   []textpos.Edit `json:"edits,omitempty"`
	Text    string         `json:"text,omitempty"`
	Value   string         `json:"value,omitempty"`
	Skipped []string       `json:"skipped,omitempty"`
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, f, ok := s.decode(w, r)
	if !ok {
		return
	}
	res, err := f.Format(req.Text)
	s.reply(w, req.Text, res, err)
}

func (s *Server) handleWidth(w http.ResponseWriter, r *http.Request) {
	req, f, ok := s.decode(w, r)
	if !ok {
		return
	}
	width := req.Width
	if width == 0 {
		width = s.cfg.Width
	}
	if err := errs.ValidateWidth(width); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := f.SetSourceWidth(req.Text, width)
	s.reply(w, req.Text, res, err)
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	req, f, ok := s.decode(w, r)
	if !ok {
		return
	}
	p := align.Placeholder(req.Placeholder)
	if p == "" {
		p = align.Placeholder(s.cfg.Placeholder)
	}
	if req.Name != "" {
		res, err := f.InsertLayer(req.Text, req.Name, p)
		s.reply(w, req.Text, res, err)
		return
	}
	value, err := f.NewLayer(req.Text, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Value: value})
}

// decode reads the request and builds a formatter for its column unit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*Request, *format.Formatter, bool) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Code: errs.ErrCodeInvalidInput})
		return nil, nil, false
	}

	columns := req.Columns
	if columns == "" {
		columns = s.cfg.Columns
	}
	unit, err := textpos.ParseUnit(columns)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: errs.ErrCodeInvalidInput})
		return nil, nil, false
	}
	return &req, format.New(s.parser, unit), true
}

func (s *Server) reply(w http.ResponseWriter, src string, res *format.Result, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	text, err := res.Apply(src)
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "apply edits"))
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Info:    res.Info,
		Edits:   res.Edits,
		Text:    text,
		Skipped: res.Skipped,
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var e *errs.Error
	if !errors.As(err, &e) || e.Code == errs.ErrCodeInternal {
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: errs.ErrCodeInternal})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: errs.UserMessage(err), Code: e.Code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
