package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/internal/world"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/npc"
)

type HousesResponse struct {
	Houses    []house.HouseInfo `json:"houses"`
	Available []house.PoolEntry `json:"available_houses"`
}

type RestoreRequest struct {
	Activity house.Activity `json:"activity"`
}

type InteractRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type UseRequest struct {
	Category string `json:"category"`
}

type RestoreResponse struct {
	Message  string       `json:"message"`
	Resident npc.Snapshot `json:"resident"`
}

type ItemResponse struct {
	Result   house.Result `json:"result"`
	Resident npc.Snapshot `json:"resident"`
}

type HousesHandler struct {
	world     *world.World
	publisher events.Publisher
	logger    *slog.Logger
}

func NewHousesHandler(w *world.World, publisher events.Publisher, logger *slog.Logger) *HousesHandler {
	return &HousesHandler{world: w, publisher: publisher, logger: logger}
}

// ServeHTTP handles house requests
// Routes:
// GET /v1/houses                 - List assignments and the remaining pool
// GET /v1/houses/{name}          - Read one assignment
// GET /v1/houses/{name}/interior - Read the interior, building it if needed
// POST /v1/houses/{name}/{action} - assign, go-home, enter, exit, restore, interact, use
func (h *HousesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/v1/houses")

	switch len(parts) {
	case 0:
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		writeJSON(w, h.logger, http.StatusOK, HousesResponse{
			Houses:    h.world.Houses(),
			Available: h.world.Available(),
		})

	case 1:
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		info, err := h.world.House(parts[0])
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, info)

	case 2:
		h.handleAction(w, r, parts[0], parts[1])

	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown house route")
	}
}

func (h *HousesHandler) handleAction(w http.ResponseWriter, r *http.Request, name, action string) {
	if action == "interior" {
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
			return
		}
		in, err := h.world.Interior(name)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, in)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	switch action {
	case "assign":
		a, err := h.world.Assign(name)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		publish(r.Context(), h.publisher, h.logger, events.HouseAssigned(a))
		writeJSON(w, h.logger, http.StatusOK, a)

	case "go-home":
		s, err := h.world.GoHome(name)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, s)

	case "enter":
		s, err := h.world.Enter(name)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		publish(r.Context(), h.publisher, h.logger, events.HouseEntered(name))
		writeJSON(w, h.logger, http.StatusOK, s)

	case "exit":
		s, err := h.world.Exit(name)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		publish(r.Context(), h.publisher, h.logger, events.HouseExited(name, s.Position))
		writeJSON(w, h.logger, http.StatusOK, s)

	case "restore":
		h.handleRestore(w, r, name)

	case "interact":
		var req InteractRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		result, s, err := h.world.Interact(name, req.X, req.Y)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		if result.Exit {
			publish(r.Context(), h.publisher, h.logger, events.HouseExited(name, s.Position))
		}
		writeJSON(w, h.logger, http.StatusOK, ItemResponse{Result: result, Resident: s})

	case "use":
		var req UseRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.Category == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Item category is required")
			return
		}
		result, s, err := h.world.Use(name, req.Category)
		if err != nil {
			writeWorldError(w, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, ItemResponse{Result: result, Resident: s})

	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown house action: "+action)
	}
}

func (h *HousesHandler) handleRestore(w http.ResponseWriter, r *http.Request, name string) {
	var req RestoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if _, ok := house.ActivityRequirements(req.Activity); !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Unknown activity: "+string(req.Activity))
		return
	}

	msg, s, err := h.world.Restore(name, req.Activity)
	if err != nil {
		writeWorldError(w, h.logger, err)
		return
	}
	publish(r.Context(), h.publisher, h.logger, events.HouseRestored(name, req.Activity, msg))
	writeJSON(w, h.logger, http.StatusOK, RestoreResponse{Message: msg, Resident: s})
}
