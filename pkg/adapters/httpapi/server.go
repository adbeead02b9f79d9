package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
)

// Server exposes builder sessions over a JSON API. Each session walks one
// form from creation to a finished value.
type Server struct {
	sessions *session.Manager
	metrics  *metrics
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request handling events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for a session manager. Metrics are
// registered on a private registry and served under /metrics, so multiple
// handlers can coexist in one process.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		sessions: sessions,
		metrics:  newMetrics(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Get("/options", s.getSessionOptions)
			r.Post("/choose", s.choose)
			r.Get("/tree", s.getTree)
		})
	})
	return r
}

// ChooseRequest is the body of POST /sessions/{id}/choose. Exactly one of
// Choice and Text must be set.
type ChooseRequest struct {
	Choice *string `json:"choice,omitempty"`
	Text   *string `json:"text,omitempty"`
}

// ChooseResponse reports the outcome of one input. Value is set only on
// the finishing transition; Options is the follow-up menu otherwise.
type ChooseResponse struct {
	Done    bool            `json:"done"`
	Value   map[string]any  `json:"value,omitempty"`
	Options *domain.Options `json:"options,omitempty"`
}

// SessionResponse identifies a freshly created session.
type SessionResponse struct {
	ID string `json:"id"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.Create()
	s.metrics.sessionsCreated.Inc()
	s.metrics.activeSessions.Set(float64(s.sessions.Len()))
	s.logger.Info("session created", "session_id", id)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SessionResponse{ID: id}); err != nil {
		s.logger.Error("create response encode failed", "err", err)
	}
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.sessions.List())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.activeSessions.Set(float64(s.sessions.Len()))
	s.logger.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSessionOptions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var opts domain.Options
	err := s.sessions.WithSession(r.Context(), id, func(e *session.Engine) error {
		opts = e.GetOptions()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, opts)
}

func (s *Server) choose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var body ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("choose: invalid request body", "err", err)
		return
	}
	in, err := inputFromRequest(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp ChooseResponse
	err = s.sessions.WithSession(r.Context(), id, func(e *session.Engine) error {
		value, err := e.Choose(in)
		if err != nil {
			return err
		}
		if value != nil {
			resp = ChooseResponse{Done: true, Value: *value}
			return nil
		}
		opts := e.GetOptions()
		resp = ChooseResponse{Options: &opts}
		return nil
	})
	if err != nil {
		s.metrics.chooseTotal.WithLabelValues("rejected").Inc()
		s.writeError(w, err)
		return
	}

	s.metrics.chooseTotal.WithLabelValues("ok").Inc()
	if resp.Done {
		// A finished session has no further menus to serve.
		if err := s.sessions.Delete(id); err == nil {
			s.metrics.activeSessions.Set(float64(s.sessions.Len()))
		}
		s.logger.Info("session finished", "session_id", id)
	}
	s.writeJSON(w, resp)
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var tree domain.Tree
	err := s.sessions.WithSession(r.Context(), id, func(e *session.Engine) error {
		tree = e.Snapshot()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, tree)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "espalier-http",
		"version": strings.TrimSpace(espalier.Version),
	})
}

func inputFromRequest(body ChooseRequest) (domain.Input, error) {
	switch {
	case body.Choice != nil && body.Text != nil:
		return domain.Input{}, errors.New("choice and text are mutually exclusive")
	case body.Choice != nil:
		return domain.Choice(*body.Choice), nil
	case body.Text != nil:
		return domain.Text(*body.Text), nil
	default:
		return domain.Input{}, errors.New("one of choice or text is required")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors onto HTTP statuses: unknown sessions are
// 404, rejected inputs are 422 and everything else is a server fault.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var invalidText *domain.InvalidTextError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrUnexpectedText),
		errors.Is(err, domain.ErrUnexpectedChoice),
		errors.As(err, &invalidText):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// metrics holds the instruments of one handler, backed by a private
// registry.
type metrics struct {
	registry        *prometheus.Registry
	sessionsCreated prometheus.Counter
	activeSessions  prometheus.Gauge
	chooseTotal     *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_sessions_created_total",
			Help: "Sessions created since process start.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "espalier_active_sessions",
			Help: "Sessions currently live.",
		}),
		chooseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_choose_total",
			Help: "Inputs handled, labelled by outcome.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.sessionsCreated, m.activeSessions, m.chooseTotal)
	return m
}
