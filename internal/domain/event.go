package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	EntityType EntityType         `json:"entityType"`
	Action     ActionType         `json:"action"`
	EntityID   primitive.ObjectID `json:"entityId"`
	UserID     primitive.ObjectID `json:"userId"`
	OccurredAt time.Time          `json:"occurredAt"`
	Payload    json.RawMessage    `json:"payload,omitempty"`
}

// Subject is the messaging subject the event is published on,
// e.g. "blogapi.blog.create".
func (e *Event) Subject() string {
	return fmt.Sprintf("blogapi.%s.%s", e.EntityType, e.Action)
}

func NewEvent(entityType EntityType, action ActionType, entityID, userID primitive.ObjectID, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("event payload could not be encoded: %w", err)
	}

	return &Event{
		EntityType: entityType,
		Action:     action,
		EntityID:   entityID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
