package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/internal/world"
	"github.com/jwebster45206/hearth/pkg/npc"
)

// DefaultDrain is how much every need falls per tick when the request
// does not say.
const DefaultDrain = 0.05

type TickRequest struct {
	Drain *float64 `json:"drain,omitempty"`
}

type TickResponse struct {
	Outcomes []npc.Outcome `json:"outcomes"`
}

type WorldHandler struct {
	world     *world.World
	publisher events.Publisher
	logger    *slog.Logger
}

func NewWorldHandler(w *world.World, publisher events.Publisher, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{world: w, publisher: publisher, logger: logger}
}

// ServeHTTP handles world requests
// Routes:
// POST /v1/world/tick - Run one pass of the home routine
// GET /v1/world/debug - Plain text dump of every assignment
func (h *WorldHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/v1/world")
	if len(parts) != 1 {
		writeError(w, h.logger, http.StatusNotFound, "Unknown world route")
		return
	}

	switch parts[0] {
	case "tick":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleTick(w, r)

	case "debug":
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		h.world.Debug(w)

	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown world route")
	}
}

func (h *WorldHandler) handleTick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	drain := DefaultDrain
	if req.Drain != nil {
		drain = *req.Drain
	}
	if drain < 0 || drain > 1 {
		writeError(w, h.logger, http.StatusBadRequest, "drain must be between 0 and 1")
		return
	}

	outcomes := h.world.Tick(drain)
	for _, out := range outcomes {
		h.publishOutcome(r.Context(), out)
	}
	writeJSON(w, h.logger, http.StatusOK, TickResponse{Outcomes: outcomes})
}

func (h *WorldHandler) publishOutcome(ctx context.Context, out npc.Outcome) {
	switch out.Action {
	case npc.ActionEnter:
		publish(ctx, h.publisher, h.logger, events.HouseEntered(out.Resident))
	case npc.ActionExit:
		if s, err := h.world.Resident(out.Resident); err == nil {
			publish(ctx, h.publisher, h.logger, events.HouseExited(out.Resident, s.Position))
		}
	}
	if out.Activity != "" {
		publish(ctx, h.publisher, h.logger, events.HouseRestored(out.Resident, out.Activity, out.Detail))
	}
}
