// Package syncserver serves per-user record snapshots over HTTP.
package syncserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/snapshot"
)

// maxUploadBytes bounds POST /api/data bodies.
const maxUploadBytes = 10 << 20

// UploadRequest is the body of POST /api/data.
type UploadRequest struct {
	User      string      `json:"user"`
	Data      record.List `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// UploadResponse acknowledges an upload.
type UploadResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Server handles sync requests.
type Server struct {
	store  *snapshot.Store
	logger *slog.Logger
}

// New creates a Server backed by store.
func New(store *snapshot.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(MetricsMiddleware())

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/data", s.Download)
	r.Post("/api/data", s.Upload)
	r.Delete("/api/data", s.Delete)
	r.Get("/api/users", s.Users)
	r.Get("/api/uploads", s.Uploads)

	return r
}

// Health handles GET /health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Download handles GET /api/data?user=
// The body is the user's record list; a user without a snapshot gets [].
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing user")
		return
	}

	snap, err := s.store.Get(user)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		snapshotReadsTotal.WithLabelValues("miss").Inc()
		writeJSON(w, http.StatusOK, record.List{})
		return
	case err != nil:
		s.logger.Error("failed to read snapshot", "user", user, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to read snapshot")
		return
	}

	snapshotReadsTotal.WithLabelValues("hit").Inc()
	writeJSON(w, http.StatusOK, snap.Data)
}

// Upload handles POST /api/data
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.User == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing user")
		return
	}

	err := s.store.Put(snapshot.Snapshot{
		User:      req.User,
		Timestamp: req.Timestamp,
		Data:      req.Data,
	})
	if err != nil {
		s.logger.Error("failed to store snapshot", "user", req.User, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to store snapshot")
		return
	}

	recordsReceivedTotal.Add(float64(len(req.Data)))
	s.logger.Info("snapshot stored", "user", req.User, "records", len(req.Data))

	writeJSON(w, http.StatusOK, UploadResponse{Status: "ok", Count: len(req.Data)})
}

// Delete handles DELETE /api/data?user=
// The upload log is kept.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing user")
		return
	}

	if err := s.store.Delete(user); err != nil {
		s.logger.Error("failed to delete snapshot", "user", user, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to delete snapshot")
		return
	}

	s.logger.Info("snapshot deleted", "user", user)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Users handles GET /api/users
func (s *Server) Users(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list users")
		return
	}
	if users == nil {
		users = []string{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Uploads handles GET /api/uploads?user=
// Without a user every entry is returned.
func (s *Server) Uploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := s.store.Uploads(r.URL.Query().Get("user"))
	if err != nil {
		s.logger.Error("failed to list uploads", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to list uploads")
		return
	}
	if uploads == nil {
		uploads = []snapshot.Upload{}
	}
	writeJSON(w, http.StatusOK, uploads)
}
