package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailveil/internal/broker"
	"mailveil/internal/domain"
)

// Server serves the broker API as JSON.
type Server struct {
	broker  *broker.Broker
	log     *slog.Logger
	metrics *Metrics
}

// NewHandler builds the chi router for the broker, registering metrics on
// reg when it is non-nil.
func NewHandler(b *broker.Broker, log *slog.Logger, reg *prometheus.Registry) http.Handler {
	s := &Server{broker: b, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if reg != nil {
		s.metrics = NewMetrics(reg)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/aliases", s.createAlias)
		r.Get("/aliases", s.listAliases)
		r.Get("/aliases/{id}", s.getAlias)
		r.Delete("/aliases/{id}", s.deleteAlias)

		r.Post("/sessions", s.createSession)
		r.Get("/sessions", s.listSessions)
		r.Delete("/sessions/{id}", s.destroySession)
		r.Post("/sessions/{id}/open", s.openSession)

		r.Post("/passwords", s.generatePassword)
		r.Get("/breach", s.checkBreach)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTransient):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrPersistence):
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("broker operation failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type createAliasRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Group  string `json:"group"`
}

type aliasResponse struct {
	domain.Alias
	Local string `json:"local"`
}

func (s *Server) createAlias(w http.ResponseWriter, r *http.Request) {
	var body createAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.observe("create_alias", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	a, err := s.broker.CreateAlias(r.Context(), body.Name, body.Domain, body.Group)
	s.metrics.observe("create_alias", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, aliasResponse{Alias: a, Local: a.Local()})
}

func (s *Server) listAliases(w http.ResponseWriter, r *http.Request) {
	aliases := s.broker.ListAliases(r.Context())
	s.metrics.observe("list_aliases", nil)
	out := make([]aliasResponse, 0, len(aliases))
	for _, a := range aliases {
		out = append(out, aliasResponse{Alias: a, Local: a.Local()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getAlias(w http.ResponseWriter, r *http.Request) {
	id := domain.AliasID(chi.URLParam(r, "id"))
	a, err := s.broker.GetAlias(r.Context(), id)
	s.metrics.observe("get_alias", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aliasResponse{Alias: a, Local: a.Local()})
}

func (s *Server) deleteAlias(w http.ResponseWriter, r *http.Request) {
	id := domain.AliasID(chi.URLParam(r, "id"))
	err := s.broker.DeleteAlias(r.Context(), id)
	s.metrics.observe("delete_alias", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createSessionRequest struct {
	Site    string `json:"site"`
	AliasID string `json:"alias_id"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.observe("create_session", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sess, err := s.broker.CreateSession(r.Context(), body.Site, domain.AliasID(body.AliasID))
	s.metrics.observe("create_session", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.broker.ListSessions(r.Context())
	s.metrics.observe("list_sessions", nil)
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) destroySession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	err := s.broker.DestroySession(r.Context(), id)
	s.metrics.observe("destroy_session", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	tok, err := s.broker.OpenSession(r.Context(), id)
	s.metrics.observe("open_session", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

type generatePasswordRequest struct {
	Length int `json:"length"`
}

type generatePasswordResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}

func (s *Server) generatePassword(w http.ResponseWriter, r *http.Request) {
	var body generatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.observe("generate_password", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	pw, err := s.broker.GeneratePassword(r.Context(), body.Length)
	s.metrics.observe("generate_password", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generatePasswordResponse{Password: pw, Length: len(pw)})
}

func (s *Server) checkBreach(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	report, err := s.broker.CheckEmailBreach(r.Context(), email)
	s.metrics.observe("check_breach", err)
	if err != nil && !errors.Is(err, domain.ErrTransient) {
		s.writeError(w, err)
		return
	}
	// Transient failures still answer with the unknown-status report; the
	// caller distinguishes unknown from clear by status, not by HTTP code.
	writeJSON(w, http.StatusOK, report)
}
