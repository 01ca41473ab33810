package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/batch"
	"github.com/hamed0406/urlchecker/internal/domain"
	apimw "github.com/hamed0406/urlchecker/internal/httpapi/middleware"
	"github.com/hamed0406/urlchecker/internal/metrics"
	"github.com/hamed0406/urlchecker/internal/notify"
	"github.com/hamed0406/urlchecker/internal/output"
	"github.com/hamed0406/urlchecker/internal/repo"
)

const (
	BatchIDHeader = "X-Batch-ID"
	maxBodyBytes  = 1 << 20
	// added to every batch write deadline for encoding and the network
	checkSlack = 5 * time.Second
)

// BatchRunner is satisfied by *batch.Coordinator.
type BatchRunner interface {
	Run(ctx context.Context, urls []string) (*batch.Report, error)
}

type Server struct {
	Logger  *zap.Logger
	Batches BatchRunner
	History repo.HistoryStore  // optional
	Notify  *notify.Dispatcher // optional
	Metrics *metrics.Collector // optional

	MaxURLs        int      // per request; <= 0 disables the cap
	AllowedOrigins []string // empty allows any origin

	// MaxConcurrency mirrors the coordinator bound and sizes the write deadline.
	MaxConcurrency int
	// PerURLBudget is the worst case for one probe. 0 clears the write deadline for checks.
	PerURLBudget time.Duration
}

func NewServer(l *zap.Logger, b BatchRunner, h repo.HistoryStore, maxURLs int) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Batches: b, History: h, MaxURLs: maxURLs}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(apimw.RequestID)
	r.Use(apimw.AccessLog(s.Logger))
	r.Use(chimw.Recoverer)
	r.Use(s.cors())

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Post("/check-urls", s.handleCheck)
	r.Route("/api", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) cors() func(http.Handler) http.Handler {
	if len(s.AllowedOrigins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", apimw.RequestIDHeader},
		ExposedHeaders: []string{BatchIDHeader, apimw.RequestIDHeader},
		MaxAge:         300,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req domain.ProbeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if _, err := dec.Token(); err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON body: unexpected data after object")
		return
	}
	if err := req.Validate(s.MaxURLs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// a client hanging up must not cancel the batch; probes carry their own timeouts
	ctx := context.WithoutCancel(r.Context())
	s.extendWriteDeadline(w, len(req.URLs))
	rep, err := s.Batches.Run(ctx, req.URLs)
	if err != nil {
		s.Logger.Error("check_failed",
			zap.String("request_id", apimw.GetRequestID(r.Context())),
			zap.Int("urls", len(req.URLs)),
			zap.Error(err),
		)
		msg := "batch failed"
		if errors.Is(err, batch.ErrCoordination) {
			msg = err.Error()
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	if s.History != nil {
		if err := s.History.Append(ctx, rep.Results); err != nil {
			s.Logger.Warn("history_append_failed", zap.String("batch_id", rep.ID), zap.Error(err))
		}
	}
	s.Notify.BatchFailures(rep.ID, rep.Results)

	w.Header().Set(BatchIDHeader, rep.ID)
	writeJSON(w, http.StatusOK, rep.Results)
}

// CheckBudget is how long a batch of n URLs may take: one PerURLBudget per
// wave of MaxConcurrency probes.
func (s *Server) CheckBudget(n int) time.Duration {
	if s.PerURLBudget <= 0 {
		return 0
	}
	waves := 1
	if s.MaxConcurrency > 0 && n > 0 {
		waves = (n + s.MaxConcurrency - 1) / s.MaxConcurrency
	}
	return time.Duration(waves)*s.PerURLBudget + checkSlack
}

// extendWriteDeadline replaces the server-wide WriteTimeout for this response.
func (s *Server) extendWriteDeadline(w http.ResponseWriter, n int) {
	var deadline time.Time // zero clears it
	if budget := s.CheckBudget(n); budget > 0 {
		deadline = time.Now().Add(budget)
	}
	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.Logger.Debug("write_deadline_failed", zap.Error(err))
	}
}

func (s *Server) recent(r *http.Request) ([]domain.ProbeResult, error) {
	if s.History == nil {
		return nil, nil
	}
	return s.History.Recent(r.Context(), 0)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	results, err := s.recent(r)
	if err != nil {
		s.Logger.Error("stats_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, domain.Summarize(results))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	results, err := s.recent(r)
	if err != nil {
		s.Logger.Error("export_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	if err := output.WriteCSV(w, results); err != nil {
		s.Logger.Warn("export_write_failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
