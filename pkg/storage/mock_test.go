package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/hearth/pkg/house"
)

func TestMockStorage_SaveAndLoadHouses(t *testing.T) {
	mockStorage := NewMockStorage()
	ctx := context.Background()
	id := uuid.New()

	sd := house.SaveData{
		Assignments: map[string]house.SavedAssignment{
			"Alice": {HouseLocation: []float64{600, 300}, HouseType: house.TypeHouse, IsHome: true},
		},
		AvailableHouses: []house.PoolEntry{{X: 1200, Y: 150, Type: house.TypeHouse}},
	}

	if err := mockStorage.SaveHouses(ctx, id, sd); err != nil {
		t.Fatalf("Failed to save houses: %v", err)
	}

	// Mutating the original must not leak into the stored copy.
	sd.Assignments["Bob"] = house.SavedAssignment{}

	loaded, err := mockStorage.LoadHouses(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load houses: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil save data")
	}
	if len(loaded.Assignments) != 1 {
		t.Errorf("Expected 1 assignment, got %d", len(loaded.Assignments))
	}
	if !loaded.Assignments["Alice"].IsHome {
		t.Error("Expected Alice to be home")
	}
	if len(loaded.AvailableHouses) != 1 {
		t.Errorf("Expected 1 available house, got %d", len(loaded.AvailableHouses))
	}
}

func TestMockStorage_LoadMissing(t *testing.T) {
	mockStorage := NewMockStorage()

	loaded, err := mockStorage.LoadHouses(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error for missing slot, got: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for missing slot")
	}
}

func TestMockStorage_DeleteAndList(t *testing.T) {
	mockStorage := NewMockStorage()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	for _, id := range []uuid.UUID{a, b} {
		if err := mockStorage.SaveHouses(ctx, id, house.SaveData{}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}

	ids, err := mockStorage.ListSaves(ctx)
	if err != nil || len(ids) != 2 {
		t.Fatalf("Expected 2 saves, got %v (%v)", ids, err)
	}

	if err := mockStorage.DeleteHouses(ctx, a); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if loaded, _ := mockStorage.LoadHouses(ctx, a); loaded != nil {
		t.Error("Slot should be gone after delete")
	}
	if mockStorage.Count() != 1 {
		t.Errorf("Expected 1 remaining slot, got %d", mockStorage.Count())
	}
}

func TestMockStorage_Errors(t *testing.T) {
	mockStorage := NewMockStorage()
	ctx := context.Background()

	mockStorage.SetPingError(errors.New("down"))
	if err := mockStorage.Ping(ctx); err == nil {
		t.Error("Expected ping error")
	}
	mockStorage.SetPingError(nil)
	if err := mockStorage.Ping(ctx); err != nil {
		t.Errorf("Expected ping success, got %v", err)
	}

	mockStorage.SetSaveError(errors.New("full"))
	if err := mockStorage.SaveHouses(ctx, uuid.New(), house.SaveData{}); err == nil {
		t.Error("Expected save error")
	}
}
