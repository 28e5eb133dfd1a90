package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/internal/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeWorldError maps a world error onto an HTTP status.
func writeWorldError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, world.ErrUnknownNeed):
		status = http.StatusBadRequest
	case errors.Is(err, world.ErrResidentNotFound),
		errors.Is(err, world.ErrNoHouse),
		errors.Is(err, world.ErrNoItem):
		status = http.StatusNotFound
	case errors.Is(err, world.ErrResidentExists),
		errors.Is(err, world.ErrNoVacancy),
		errors.Is(err, world.ErrTooFar),
		errors.Is(err, world.ErrNotHome),
		errors.Is(err, world.ErrRestoreFailed):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		logger.Error("World operation failed", "error", err)
	}
	writeError(w, logger, status, err.Error())
}

// decodeBody decodes an optional JSON body into v. An empty body is not an
// error.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathParts splits the path below prefix, e.g. "/v1/houses/Alice/enter"
// with prefix "/v1/houses" gives ["Alice", "enter"].
func pathParts(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// publish sends e and only logs failures; a missing broker never fails a
// request.
func publish(ctx context.Context, pub events.Publisher, logger *slog.Logger, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish event", "error", err, "event_type", e.Type)
	}
}
