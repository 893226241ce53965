package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/factify/factify/internal/cache"
	"github.com/factify/factify/internal/model"
	"github.com/factify/factify/internal/ratelimit"
	"github.com/factify/factify/internal/sources"
)

// Version reported by the health endpoint
const Version = "1.0.0"

// Checker synthesizes a verdict for one claim. Implemented by
// aggregate.Aggregator; substituted in tests.
type Checker interface {
	Check(ctx context.Context, claim model.Claim) model.Verdict
}

// Server is the HTTP boundary of the fact-check service
type Server struct {
	log      *slog.Logger
	cfg      model.Config
	checker  Checker
	limiter  *ratelimit.Store
	registry *sources.Registry
	verdicts cache.VerdictCache // nil when caching is disabled
}

// New wires the HTTP layer. limiter and registry must not be nil;
// verdicts may be nil to disable caching.
func New(log *slog.Logger, cfg model.Config, checker Checker, limiter *ratelimit.Store, registry *sources.Registry, verdicts cache.VerdictCache) *Server {
	return &Server{
		log:      log,
		cfg:      cfg,
		checker:  checker,
		limiter:  limiter,
		registry: registry,
		verdicts: verdicts,
	}
}

// Router builds the chi router with the public routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/fact-check", s.handleFactCheck)
	r.Get("/sources", s.handleSources)
	r.Get("/health", s.handleHealth)

	return r
}

type factCheckRequest struct {
	Text    string `json:"text"`
	URL     string `json:"url,omitempty"`
	Context string `json:"context,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	requestID := reqID(r)

	var req factCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON", RequestID: requestID})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text must not be empty", RequestID: requestID})
		return
	}
	runes := utf8.RuneCountInString(text)
	if runes < s.cfg.Server.MinTextLen {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("text must be at least %d characters long", s.cfg.Server.MinTextLen),
			RequestID: requestID,
		})
		return
	}
	if runes > s.cfg.Server.MaxTextLen {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("text is too long (max %d characters)", s.cfg.Server.MaxTextLen),
			RequestID: requestID,
		})
		return
	}

	if ok, retryAfter := s.limiter.Allow(clientKey(r)); !ok {
		seconds := int(retryAfter.Seconds()) + 1
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:     fmt.Sprintf("rate limit exceeded, retry in %ds", seconds),
			RequestID: requestID,
		})
		return
	}

	claim := model.Claim{Text: text, SourceURL: req.URL, Context: req.Context}

	cacheKey := cache.Key(text)
	if s.verdicts != nil {
		if verdict, found := s.verdicts.Get(cacheKey); found {
			s.logRequest(requestID, verdict, true)
			writeJSON(w, http.StatusOK, verdict)
			return
		}
	}

	verdict := s.checker.Check(r.Context(), claim)
	if s.verdicts != nil {
		s.verdicts.Set(cacheKey, verdict)
	}

	s.logRequest(requestID, verdict, false)
	writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) logRequest(requestID string, verdict model.Verdict, cached bool) {
	s.log.Info("fact-check",
		slog.String("request_id", requestID),
		slog.String("status", string(verdict.Status)),
		slog.Int64("processing_time_ms", verdict.ProcessingTimeMS),
		slog.Bool("cached", cached))
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]sources.Source{"sources": s.registry.List()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Factify API is running",
		"version": Version,
	})
}

// recoverer converts panics into the stable 500 contract: a generic
// message plus a request id for log correlation, never internal detail.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := reqID(r)
				s.log.Error("panic recovered",
					slog.String("request_id", requestID),
					slog.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Error:     "internal server error",
					RequestID: requestID,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller for rate limiting. RealIP middleware
// has already resolved forwarding headers into RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func reqID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}

// HTTPServer builds the http.Server with sane timeouts. WriteTimeout
// leaves headroom above the per-adapter timeout.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Server.BindAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.Adapters.Timeout + 5*time.Second,
	}
}
