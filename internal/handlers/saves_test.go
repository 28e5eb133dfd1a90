package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/storage"
)

func TestSavesHandler_SaveListLoadDelete(t *testing.T) {
	w := newTestWorld()
	store := storage.NewMockStorage()
	pub := &recordingPublisher{}
	h := NewSavesHandler(w, store, pub, testLogger())

	_, _ = w.Assign("Alice")
	_, _ = w.Assign("Steve")

	rr := do(t, h, http.MethodPost, "/v1/saves", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	saved := decode[SaveResponse](t, rr)
	require.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, 1, store.Count())

	rr = do(t, h, http.MethodGet, "/v1/saves", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []uuid.UUID{saved.ID}, decode[SavesResponse](t, rr).Saves)

	rr = do(t, h, http.MethodGet, "/v1/saves/"+saved.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	sd := decode[house.SaveData](t, rr)
	assert.Len(t, sd.Assignments, 2)
	assert.Equal(t, []float64{1800, 400}, sd.Assignments["Steve"].HouseLocation)
	assert.Len(t, sd.AvailableHouses, 6)

	// Diverge, then load the slot back.
	_, _ = w.Assign("Bob")
	require.Len(t, w.Houses(), 3)

	rr = do(t, h, http.MethodPost, "/v1/saves/"+saved.ID.String()+"/load", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	loaded := decode[LoadResponse](t, rr)
	assert.Equal(t, saved.ID, loaded.ID)
	require.Len(t, loaded.Houses, 2)
	for _, info := range loaded.Houses {
		assert.True(t, info.Built, "load rebuilds every interior")
	}
	assert.Len(t, w.Available(), 6)

	rr = do(t, h, http.MethodPost, "/v1/saves/"+saved.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, saved.ID, decode[SaveResponse](t, rr).ID)
	assert.Equal(t, 1, store.Count(), "overwrite keeps one slot")

	rr = do(t, h, http.MethodDelete, "/v1/saves/"+saved.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, store.Count())

	rr = do(t, h, http.MethodGet, "/v1/saves", "")
	assert.JSONEq(t, `{"saves":[]}`, rr.Body.String())

	assert.Equal(t, []events.EventType{
		events.EventTypeWorldSaved,
		events.EventTypeWorldLoaded,
		events.EventTypeWorldSaved,
	}, pub.types())
}

func TestSavesHandler_Errors(t *testing.T) {
	w := newTestWorld()
	store := storage.NewMockStorage()
	h := NewSavesHandler(w, store, nil, testLogger())
	missing := uuid.New().String()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"bad id", http.MethodGet, "/v1/saves/not-a-uuid", http.StatusBadRequest},
		{"read missing", http.MethodGet, "/v1/saves/" + missing, http.StatusNotFound},
		{"load missing", http.MethodPost, "/v1/saves/" + missing + "/load", http.StatusNotFound},
		{"load wrong method", http.MethodGet, "/v1/saves/" + missing + "/load", http.StatusMethodNotAllowed},
		{"unknown sub route", http.MethodPost, "/v1/saves/" + missing + "/copy", http.StatusNotFound},
		{"collection wrong method", http.MethodDelete, "/v1/saves", http.StatusMethodNotAllowed},
		{"slot wrong method", http.MethodPatch, "/v1/saves/" + missing, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, "")
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}

	store.SetSaveError(errors.New("disk full"))
	rr := do(t, h, http.MethodPost, "/v1/saves", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to save houses"}`, rr.Body.String())
}
