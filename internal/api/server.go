// Package api serves a finished analysis run over HTTP: the raw bundle
// as JSON and the rendered report as HTML.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"renastat/domain/analysis"
	"renastat/internal/logging"
	"renastat/internal/plot"
	"renastat/internal/render"
)

// Server exposes one immutable ResultBundle. The bundle is computed
// before the server starts, so handlers are read-only and need no
// locking.
type Server struct {
	router *chi.Mux
	bundle *analysis.ResultBundle
	plots  *plot.Set
	log    *logging.Logger
}

// NewServer creates a report server for the given run
func NewServer(bundle *analysis.ResultBundle, plots *plot.Set, log *logging.Logger) *Server {
	if log == nil {
		log = logging.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		bundle: bundle,
		plots:  plots,
		log:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/report", s.handleReport)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/bundle", s.handleBundle)
		r.Get("/plots", s.handlePlots)
	})
}

// Handler returns the HTTP handler for mounting or testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the report on the given port
func (s *Server) ListenAndServe(port string) error {
	addr := ":" + port
	s.log.Info("report server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleBundle(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.bundle)
}

func (s *Server) handlePlots(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.plots)
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	md := render.Markdown(s.bundle)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	page := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		s.log.Error("writing report: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.Error("encoding response: %v", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
	}
}
