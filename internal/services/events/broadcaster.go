package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/hearth/pkg/house"
)

// Channel carries every house event.
const Channel = "houses:events"

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeHouseAssigned EventType = "house.assigned"
	EventTypeHouseEntered  EventType = "house.entered"
	EventTypeHouseExited   EventType = "house.exited"
	EventTypeHouseRestored EventType = "house.restored"
	EventTypeWorldSaved    EventType = "world.saved"
	EventTypeWorldLoaded   EventType = "world.loaded"
)

// Event represents a generic event structure
type Event struct {
	ID       string         `json:"id"`
	Type     EventType      `json:"type"`
	Occupant string         `json:"occupant,omitempty"`
	Time     time.Time      `json:"time"`
	Data     map[string]any `json:"data,omitempty"`
}

// Publisher is what handlers and workers publish through.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(t EventType, occupant string, data map[string]any) Event {
	return Event{
		ID:       uuid.New().String(),
		Type:     t,
		Occupant: occupant,
		Time:     time.Now().UTC(),
		Data:     data,
	}
}

func HouseAssigned(a house.Assignment) Event {
	return NewEvent(EventTypeHouseAssigned, a.Occupant, map[string]any{
		"x":          a.Location.X,
		"y":          a.Location.Y,
		"house_type": string(a.Type),
	})
}

func HouseEntered(occupant string) Event {
	return NewEvent(EventTypeHouseEntered, occupant, nil)
}

func HouseExited(occupant string, pos house.Point) Event {
	return NewEvent(EventTypeHouseExited, occupant, map[string]any{"x": pos.X, "y": pos.Y})
}

func HouseRestored(occupant string, activity house.Activity, message string) Event {
	return NewEvent(EventTypeHouseRestored, occupant, map[string]any{
		"activity": string(activity),
		"message":  message,
	})
}

func WorldSaved(id uuid.UUID) Event {
	return NewEvent(EventTypeWorldSaved, "", map[string]any{"save_id": id.String()})
}

func WorldLoaded(id uuid.UUID) Event {
	return NewEvent(EventTypeWorldLoaded, "", map[string]any{"save_id": id.String()})
}

// Broadcaster publishes events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

func (b *Broadcaster) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, Channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", Channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", Channel,
		"event_type", event.Type,
		"occupant", event.Occupant,
	)

	return nil
}

// Subscribe opens a subscription to the house channel. The caller closes it.
func (b *Broadcaster) Subscribe(ctx context.Context) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, Channel)
}

// Decode parses a pub/sub payload back into an Event.
func Decode(payload string) (Event, error) {
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return e, nil
}

// Discard drops every event. It stands in when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
