// Package chi exposes the search and session use cases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/entitysearch/internal/usecase/session"
)

// maxEventBytes bounds one condition event body.
const maxEventBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        *searchuc.Service
	sessions      *sessionuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	originPatterns []string
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	sessions *sessionuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrEntityNotFound, http.StatusNotFound, CodeEntityNotFound),
		sentinelHandler(domain.ErrUnknownKind, http.StatusNotFound, CodeUnknownEntity),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		validationHandler(domain.ErrUnknownField, CodeUnknownField),
		validationHandler(domain.ErrInvalidEvent, CodeInvalidEvent),
		validationHandler(domain.ErrInvalidQuery, CodeInvalidQuery),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, CodeBackendError),
	}
	return s
}

// Routes mounts all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/{entity}", s.GetCatalog)
		r.Get("/search/{entity}", s.Search)
		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/events", s.ApplyEvent)
			r.Post("/search", s.SearchSession)
			r.Get("/results", s.GetResults)
			r.Get("/entities/{gid}", s.GetEntity)
			r.Get("/ws", s.Stream)
		})
	})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: report.Status, Checks: report.Checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// GetCatalog handles GET /api/v1/catalog/{entity}.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	entity, ok := pathParam(w, r, "entity")
	if !ok {
		return
	}
	k, fields, err := s.sessions.Fields(entity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogToJSON(k, fields))
}

// Search handles GET /api/v1/search/{entity}?query=&page=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	entity, ok := pathParam(w, r, "entity")
	if !ok {
		return
	}
	k, known := kind.Parse(entity)
	if !known {
		s.handleDomainError(w, domain.ErrUnknownKind)
		return
	}

	var query string
	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid query parameter: "+err.Error())
		return
	}
	pageNum, ok := pageParam(w, r)
	if !ok {
		return
	}

	p, err := s.search.Search(r.Context(), k, query, pageNum)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Entity == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "entity is required")
		return
	}

	v, err := s.sessions.Create(req.Entity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// GetSession handles GET /api/v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	v, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.sessions.Remove(id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEvent handles POST /api/v1/sessions/{id}/events.
func (s *Server) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	e, err := condition.DecodeEvent(body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	v, err := s.sessions.Apply(r.Context(), id, e)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SearchSession handles POST /api/v1/sessions/{id}/search?page=.
func (s *Server) SearchSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	pageNum, ok := pageParam(w, r)
	if !ok {
		return
	}
	p, err := s.sessions.Search(r.Context(), id, pageNum)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetResults handles GET /api/v1/sessions/{id}/results.
func (s *Server) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	p, err := s.sessions.Results(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetEntity handles GET /api/v1/sessions/{id}/entities/{gid}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	gid, ok := pathParam(w, r, "gid")
	if !ok {
		return
	}
	e, err := s.sessions.Entity(id, gid)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid path parameter "+name)
		return "", false
	}
	return v, true
}

// pageParam reads the optional page query parameter. Missing means page 1.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	var pageNum *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &pageNum); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "page must be an integer")
		return 0, false
	}
	if pageNum == nil {
		return 1, true
	}
	if *pageNum < 1 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "page must be at least 1")
		return 0, false
	}
	if *pageNum > page.MaxPage {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("page must be at most %d", page.MaxPage))
		return 0, false
	}
	return *pageNum, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrEntityNotFound,
		domain.ErrUnknownKind,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrBackend,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

// validationHandler answers 400 with the full error text, which only
// describes the client's own input.
func validationHandler(sentinel error, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
