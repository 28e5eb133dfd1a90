package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/hearth/pkg/house"
)

func (r *RedisStorage) SaveHouses(ctx context.Context, id uuid.UUID, sd house.SaveData) error {
	data, err := json.Marshal(sd)
	if err != nil {
		r.logger.Error("Failed to marshal house save data", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal house save data: %w", err)
	}

	if err := r.client.Set(ctx, saveKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save houses", "uuid", id, "error", err)
		return fmt.Errorf("failed to save houses: %w", err)
	}

	r.logger.Debug("Saved houses", "uuid", id, "assignments", len(sd.Assignments))
	return nil
}

func (r *RedisStorage) LoadHouses(ctx context.Context, id uuid.UUID) (*house.SaveData, error) {
	data, err := r.client.Get(ctx, saveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("House save not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load houses", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load houses: %w", err)
	}

	sd, err := house.ParseSaveData(data)
	if err != nil {
		r.logger.Error("Failed to unmarshal house save data", "uuid", id, "error", err)
		return nil, err
	}
	return &sd, nil
}

func (r *RedisStorage) DeleteHouses(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, saveKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete houses", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete houses: %w", err)
	}
	return nil
}

// ListSaves scans for every save slot. Keys that do not end in a uuid are
// skipped.
func (r *RedisStorage) ListSaves(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	iter := r.client.Scan(ctx, 0, saveKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := uuid.Parse(strings.TrimPrefix(iter.Val(), saveKeyPrefix))
		if err != nil {
			r.logger.Warn("Skipping malformed save key", "key", iter.Val())
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}
