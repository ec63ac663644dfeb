package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pbaille/jobtrack/internal/classifier"
	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/fetcher"
	"github.com/pbaille/jobtrack/internal/insight"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/tracker"
)

// Server handles HTTP requests for the tracker API
type Server struct {
	tracker  *tracker.Tracker
	fetch    *fetcher.Client
	classify *classifier.Classifier
	log      logger.Logger
	addr     string
}

// Option configures a Server
type Option func(*Server)

func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithFetcher replaces the listing-page client used by /leads/preview
func WithFetcher(c *fetcher.Client) Option {
	return func(s *Server) { s.fetch = c }
}

// WithClassifier lets /leads/preview ask the model for role and company
func WithClassifier(c *classifier.Classifier) Option {
	return func(s *Server) { s.classify = c }
}

// New creates a new API server
func New(t *tracker.Tracker, addr string, opts ...Option) *Server {
	s := &Server{
		tracker: t,
		fetch:   fetcher.New(),
		log:     logger.NewNoOpLogger(),
		addr:    addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Collections
	mountCollection[domain.Lead](mux, s, domain.KindLead, s.tracker.Leads, nil)
	mountCollection[domain.Application](mux, s, domain.KindApplication, s.tracker.Applications, nil)
	mountCollection[domain.Interview](mux, s, domain.KindInterview, s.tracker.Interviews, nil)
	mountCollection[domain.Contact](mux, s, domain.KindContact, s.tracker.Contacts, nil)
	mountCollection[domain.Task](mux, s, domain.KindTask, s.tracker.Tasks, filterTasks)
	mountCollection[domain.Offer](mux, s, domain.KindOffer, s.tracker.Offers, nil)

	// Queries and shortcuts
	mux.HandleFunc("GET /applications/{id}/interviews", s.interviewsByApplication)
	mux.HandleFunc("GET /applications/kanban", s.kanban)
	mux.HandleFunc("GET /leads/preview", s.previewLead)
	mux.HandleFunc("GET /tasks/buckets", s.taskBuckets)
	mux.HandleFunc("DELETE /tasks/{id}", s.deleteTask)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.toggleTask)
	mux.HandleFunc("POST /tasks/{id}/snooze", s.snoozeTask)
	mux.HandleFunc("GET /offers/urgent", s.urgentOffers)
	mux.HandleFunc("GET /dashboard", s.dashboard)
	mux.HandleFunc("GET /export", s.export)

	// Health check and metrics
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withCORS(s.withMetrics(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", map[string]interface{}{"addr": s.addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) interviewsByApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applicationId": id,
		"interviews":    s.tracker.InterviewsByApplication(r.Context(), id),
	})
}

func (s *Server) kanban(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": insight.Kanban(s.tracker.Applications.All(r.Context())),
	})
}

func (s *Server) previewLead(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'url' is required")
		return
	}

	page, err := s.fetch.Fetch(r.Context(), rawURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	listing, err := classifier.Prefill(r.Context(), s.classify, page)
	if err != nil {
		s.log.WithError(err).Warn("listing extraction failed, using page title", map[string]interface{}{"url": page.URL})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page": page,
		"lead": domain.Lead{
			Name:        listing.Name(),
			RoleTitle:   listing.RoleTitle,
			CompanyName: listing.CompanyName,
			ListingURL:  page.URL,
			Source:      "web",
			Status:      domain.LeadNew,
		},
	})
}

func (s *Server) taskBuckets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, insight.BucketTasks(s.tracker.Tasks.All(r.Context()), s.tracker.Now()))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := s.tracker.Tasks.Delete(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	task, found, err := s.tracker.Tasks.Toggle(r.Context(), r.PathValue("id"))
	s.writeUpdated(w, domain.KindTask, task, found, err)
}

func (s *Server) snoozeTask(w http.ResponseWriter, r *http.Request) {
	days := 1
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	task, found, err := s.tracker.Tasks.Snooze(r.Context(), r.PathValue("id"), days)
	s.writeUpdated(w, domain.KindTask, task, found, err)
}

func (s *Server) urgentOffers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"offers": insight.UrgentOffers(s.tracker.Offers.All(r.Context()), s.tracker.Now()),
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, insight.Summarize(s.tracker.Snapshot(r.Context()), s.tracker.Now()))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	exp := s.tracker.Export(r.Context())
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.FileName()+`"`)
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) writeUpdated(w http.ResponseWriter, kind domain.Kind, rec interface{}, found bool, err error) {
	if !found {
		writeError(w, http.StatusNotFound, string(kind)+" not found")
		return
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// writeStoreError maps tracker errors: rejected input is the caller's
// fault, anything else is a storage failure.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, tracker.ErrInvalid) {
		writeError(w, http.StatusBadRequest, domain.ValidationMessage(err))
		return
	}
	s.log.WithError(err).Error("storage failure", nil)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
