package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/hearth/internal/world"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/npc"
)

type CreateResidentRequest struct {
	Name     string      `json:"name"`
	Position house.Point `json:"position"`
}

type ResidentsResponse struct {
	Residents []npc.Snapshot `json:"residents"`
}

type ResidentsHandler struct {
	world  *world.World
	logger *slog.Logger
}

func NewResidentsHandler(w *world.World, logger *slog.Logger) *ResidentsHandler {
	return &ResidentsHandler{world: w, logger: logger}
}

// ServeHTTP handles resident requests
// Routes:
// GET /v1/residents          - List residents
// POST /v1/residents         - Register a resident
// GET /v1/residents/{name}   - Read one resident
// PATCH /v1/residents/{name} - Move a resident or overwrite its stats
func (h *ResidentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/v1/residents")

	switch len(parts) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, h.logger, http.StatusOK, ResidentsResponse{Residents: h.world.Residents()})
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}

	case 1:
		name := parts[0]
		switch r.Method {
		case http.MethodGet:
			s, err := h.world.Resident(name)
			if err != nil {
				writeWorldError(w, h.logger, err)
				return
			}
			writeJSON(w, h.logger, http.StatusOK, s)
		case http.MethodPatch:
			h.handlePatch(w, r, name)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, PATCH")
		}

	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown resident route")
	}
}

func (h *ResidentsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateResidentRequest
	if err := decodeBody(r, &req); err != nil {
		h.logger.Warn("Invalid resident request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Resident name is required")
		return
	}

	s, err := h.world.AddResident(req.Name, req.Position)
	if err != nil {
		writeWorldError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, s)
}

func (h *ResidentsHandler) handlePatch(w http.ResponseWriter, r *http.Request, name string) {
	var update world.ResidentUpdate
	if err := decodeBody(r, &update); err != nil {
		h.logger.Warn("Invalid resident update", "resident", name, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	s, err := h.world.UpdateResident(name, update)
	if err != nil {
		writeWorldError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}
