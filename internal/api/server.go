// Package api exposes the fitting pipeline over HTTP. The service only
// returns structured numbers and rendered report text; plotting stays with
// the caller.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"labfit/app"
	internal "labfit/internal"
	"labfit/ports"
)

// Server wires the fit service routes onto a chi router
type Server struct {
	router *chi.Mux
	svc    *app.SweepService
	repo   ports.ReportRepository
	logger *internal.Logger
}

// NewServer creates the HTTP server around a sweep service and its repository
func NewServer(svc *app.SweepService, repo ports.ReportRepository, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
		repo:   repo,
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleListModels)
		r.Post("/fits", s.handleFit)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{reportId}", s.handleGetReport)
	})
	s.router.Get("/reports/{reportId}", s.handleReportHTML)
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port
func (s *Server) ListenAndServe(port string) error {
	s.logger.Info("fit service listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}
