package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/hearth/internal/services/events"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/storage"
)

const (
	lockName    = "autosave"
	lockTTL     = 30 * time.Second
	saveTimeout = 5 * time.Second
)

// Snapshotter is anything that can produce house save data.
type Snapshotter interface {
	Save() house.SaveData
}

// Locker guards a save slot against concurrent writers.
type Locker interface {
	AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

// Config configures an Autosaver. Locker and Publisher are optional.
type Config struct {
	ID        string
	Slot      uuid.UUID
	Interval  time.Duration
	Storage   storage.Storage
	Locker    Locker
	Publisher events.Publisher
}

// Autosaver periodically writes the world's houses into one save slot
type Autosaver struct {
	id        string
	world     Snapshotter
	storage   storage.Storage
	locker    Locker
	publisher events.Publisher
	slot      uuid.UUID
	interval  time.Duration
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new autosaver
func New(world Snapshotter, cfg Config, log *slog.Logger) *Autosaver {
	ctx, cancel := context.WithCancel(context.Background())

	id := cfg.ID
	if id == "" {
		id = fmt.Sprintf("autosave-%s", uuid.New().String()[:8])
	}
	slot := cfg.Slot
	if slot == uuid.Nil {
		slot = uuid.New()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.Discard{}
	}

	return &Autosaver{
		id:        id,
		world:     world,
		storage:   cfg.Storage,
		locker:    cfg.Locker,
		publisher: publisher,
		slot:      slot,
		interval:  cfg.Interval,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Slot is the save slot this autosaver writes to.
func (a *Autosaver) Slot() uuid.UUID {
	return a.slot
}

// Start saves every interval until Stop is called, then saves once more.
// A non-positive interval disables autosave and Start returns at once.
func (a *Autosaver) Start() error {
	if a.interval <= 0 {
		a.log.Info("Autosave disabled", "worker_id", a.id)
		return nil
	}

	a.log.Info("Autosave starting",
		"worker_id", a.id,
		"slot", a.slot.String(),
		"interval", a.interval.String())

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			a.log.Info("Autosave shutting down", "worker_id", a.id)
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := a.SaveNow(ctx); err != nil {
				a.log.Error("Final autosave failed", "error", err, "worker_id", a.id)
			}
			return nil
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(a.ctx, saveTimeout)
			if err := a.SaveNow(ctx); err != nil {
				// Keep ticking; the next interval retries.
				a.log.Error("Autosave failed", "error", err, "worker_id", a.id)
			}
			cancel()
		}
	}
}

// Stop gracefully shuts down the autosaver
func (a *Autosaver) Stop() {
	a.log.Info("Autosave stop requested", "worker_id", a.id)
	a.cancel()
}

// SaveNow writes the current houses into the slot. When another owner holds
// the slot lock the save is skipped without error.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	if a.locker != nil {
		locked, err := a.locker.AcquireLock(ctx, lockName+":"+a.slot.String(), a.id, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire autosave lock: %w", err)
		}
		if !locked {
			a.log.Info("Autosave slot locked, skipping", "worker_id", a.id, "slot", a.slot.String())
			return nil
		}
		defer func() {
			// The caller's ctx may already be done; release on a fresh deadline.
			releaseCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := a.locker.ReleaseLock(releaseCtx, lockName+":"+a.slot.String(), a.id); err != nil {
				a.log.Error("Failed to release autosave lock", "error", err, "worker_id", a.id)
			}
		}()
	}

	start := time.Now()
	sd := a.world.Save()
	if err := a.storage.SaveHouses(ctx, a.slot, sd); err != nil {
		return fmt.Errorf("failed to autosave houses: %w", err)
	}

	a.log.Info("Autosaved houses",
		"worker_id", a.id,
		"slot", a.slot.String(),
		"assignments", len(sd.Assignments),
		"duration_ms", time.Since(start).Milliseconds())

	if err := a.publisher.Publish(ctx, events.WorldSaved(a.slot)); err != nil {
		a.log.Warn("Failed to publish autosave event", "error", err)
	}
	return nil
}
