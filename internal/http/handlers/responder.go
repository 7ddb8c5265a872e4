package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/yoniadmire/puppy-bowl/internal/http/middleware"
	"github.com/yoniadmire/puppy-bowl/internal/http/requestutil"
	"github.com/yoniadmire/puppy-bowl/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, loggerFromContext(r, logger))
}

// writeHTML writes nothing to w unless render succeeds.
func writeHTML(w http.ResponseWriter, r *http.Request, status int, render func(io.Writer) error, logger *slog.Logger) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logging.Error(logger, "failed to render view", err)
		writeError(w, r, http.StatusInternalServerError, "render failed", logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", requestutil.HeaderHTMX)
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug(logger, "failed to write response", "error", err)
	}
}

// keepDisplay answers an htmx request without swapping anything, leaving stale content in place.
func keepDisplay(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
