package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/hearth/pkg/house"
)

// Storage persists house save slots keyed by uuid.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Save slots. LoadHouses returns nil, nil when the slot does not exist.
	SaveHouses(ctx context.Context, id uuid.UUID, sd house.SaveData) error
	LoadHouses(ctx context.Context, id uuid.UUID) (*house.SaveData, error)
	DeleteHouses(ctx context.Context, id uuid.UUID) error
	ListSaves(ctx context.Context) ([]uuid.UUID, error)
}
