package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/internal/world"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/storage"
)

type SaveResponse struct {
	ID uuid.UUID `json:"id"`
}

type SavesResponse struct {
	Saves []uuid.UUID `json:"saves"`
}

type LoadResponse struct {
	ID     uuid.UUID         `json:"id"`
	Houses []house.HouseInfo `json:"houses"`
}

type SavesHandler struct {
	world     *world.World
	storage   storage.Storage
	publisher events.Publisher
	logger    *slog.Logger
}

func NewSavesHandler(w *world.World, storage storage.Storage, publisher events.Publisher, logger *slog.Logger) *SavesHandler {
	return &SavesHandler{world: w, storage: storage, publisher: publisher, logger: logger}
}

// ServeHTTP handles save slot requests
// Routes:
// POST /v1/saves           - Save the world into a new slot
// GET /v1/saves            - List slots
// GET /v1/saves/{id}       - Read a slot's save data
// POST /v1/saves/{id}      - Overwrite a slot with the current world
// POST /v1/saves/{id}/load - Replace the world's houses with a slot
// DELETE /v1/saves/{id}    - Delete a slot
func (h *SavesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/v1/saves")

	if len(parts) == 0 {
		switch r.Method {
		case http.MethodPost:
			h.handleSave(w, r, uuid.New(), http.StatusCreated)
		case http.MethodGet:
			h.handleList(w, r)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST")
		}
		return
	}

	if len(parts) > 2 || (len(parts) == 2 && parts[1] != "load") {
		writeError(w, h.logger, http.StatusNotFound, "Unknown save route")
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid save ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid save ID format")
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleLoad(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleRead(w, r, id)
	case http.MethodPost:
		h.handleSave(w, r, id, http.StatusOK)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, POST, DELETE")
	}
}

func (h *SavesHandler) handleSave(w http.ResponseWriter, r *http.Request, id uuid.UUID, status int) {
	if err := h.storage.SaveHouses(r.Context(), id, h.world.Save()); err != nil {
		h.logger.Error("Failed to save houses", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save houses")
		return
	}
	h.logger.Info("Houses saved", "id", id.String())
	publish(r.Context(), h.publisher, h.logger, events.WorldSaved(id))
	writeJSON(w, h.logger, status, SaveResponse{ID: id})
}

func (h *SavesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListSaves(r.Context())
	if err != nil {
		h.logger.Error("Failed to list saves", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list saves")
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	writeJSON(w, h.logger, http.StatusOK, SavesResponse{Saves: ids})
}

func (h *SavesHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sd, err := h.storage.LoadHouses(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load houses", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load save")
		return
	}
	if sd == nil {
		writeError(w, h.logger, http.StatusNotFound, "Save not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sd)
}

func (h *SavesHandler) handleLoad(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sd, err := h.storage.LoadHouses(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load houses", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load save")
		return
	}
	if sd == nil {
		writeError(w, h.logger, http.StatusNotFound, "Save not found")
		return
	}

	h.world.Load(*sd)
	h.logger.Info("Houses loaded", "id", id.String(), "assignments", len(sd.Assignments))
	publish(r.Context(), h.publisher, h.logger, events.WorldLoaded(id))
	writeJSON(w, h.logger, http.StatusOK, LoadResponse{ID: id, Houses: h.world.Houses()})
}

func (h *SavesHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteHouses(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete save", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete save")
		return
	}
	h.logger.Debug("Save deleted", "id", id.String())
	w.WriteHeader(http.StatusNoContent)
}
