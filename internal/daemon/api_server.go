package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/review"
	"pictor/internal/tagging"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ingest", srv.handleIngest)
	mux.HandleFunc("/api/tagging/run", srv.handleTaggingRun)
	mux.HandleFunc("/api/review", srv.handleReviewList)
	mux.HandleFunc("/api/review/", srv.handleReviewDecision)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/stats", srv.handleStats)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", "address", listener.Addr().String())
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type ingestRequest struct {
	Root  string `json:"root"`
	Owner string `json:"owner"`
}

// handleIngest accepts an ingestion trigger and runs it in the background.
// The response only acknowledges the request; results land in the log and
// the catalog.
func (s *apiServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	root := strings.TrimSpace(req.Root)
	if root == "" {
		root = s.daemon.cfg.Paths.ImportDir
	}

	d := s.daemon
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		stats, err := d.pipeline.Run(d.ctx, root, strings.TrimSpace(req.Owner))
		if err != nil {
			s.logger.Warn("background ingestion failed", "root", root, "error", err)
			return
		}
		s.logger.Info("background ingestion finished",
			"root", root, "added", stats.Added, "skipped", stats.Skipped, "errors", stats.Errors)
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "root": root})
}

// handleTaggingRun starts a worker run unless one is already active.
func (s *apiServer) handleTaggingRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.engine.Running() {
		s.writeError(w, http.StatusConflict, "tagging run already active")
		return
	}

	d := s.daemon
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if _, err := d.engine.Run(d.ctx); err != nil && !errors.Is(err, tagging.ErrRunActive) {
			s.logger.Warn("background tagging run failed", "error", err)
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type reviewItemPayload struct {
	ImageID    int64   `json:"image_id"`
	TagID      int64   `json:"tag_id"`
	ImageHash  string  `json:"image_hash"`
	Filename   string  `json:"filename"`
	TagName    string  `json:"tag_name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

func (s *apiServer) handleReviewList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := s.daemon.reviews.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := make([]reviewItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, reviewItemPayload{
			ImageID:    item.ImageID,
			TagID:      item.TagID,
			ImageHash:  item.ImageHash,
			Filename:   item.Filename,
			TagName:    item.TagName,
			Category:   item.Category,
			Confidence: item.Confidence,
			Source:     string(item.Source),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": payload})
}

type reviewDecisionRequest struct {
	Action string `json:"action"`
}

// handleReviewDecision applies an approve or reject decision to the link
// addressed as /api/review/{image}/{tag}.
func (s *apiServer) handleReviewDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/review/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		s.writeError(w, http.StatusNotFound, "review link not found")
		return
	}
	imageID, imgErr := strconv.ParseInt(parts[0], 10, 64)
	tagID, tagErr := strconv.ParseInt(parts[1], 10, 64)
	if imgErr != nil || tagErr != nil {
		s.writeError(w, http.StatusBadRequest, "invalid link identifiers")
		return
	}

	var req reviewDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.daemon.reviews.Apply(r.Context(), imageID, tagID, strings.TrimSpace(req.Action))
	switch {
	case errors.Is(err, review.ErrInvalidAction):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, review.ErrLinkNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"running":        status.Running,
		"pid":            status.PID,
		"database_path":  status.DatabasePath,
		"lock_file_path": status.LockFilePath,
		"tagging_active": status.TaggingActive,
	})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.daemon.store.Stats(r.Context(),
		s.daemon.cfg.Review.LowerBound, s.daemon.cfg.Review.UpperBound)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, statsPayload(stats))
}

func statsPayload(stats catalog.Stats) map[string]int {
	return map[string]int{
		"albums":         stats.Albums,
		"images":         stats.Images,
		"unprocessed":    stats.Unprocessed,
		"tags":           stats.Tags,
		"links":          stats.Links,
		"pending_review": stats.PendingReview,
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
