// Package activity records domain events produced by successful mutations.
// Recorders are side channels: a failing recorder never fails the mutation.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/social-network/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type identifies what happened
type Type string

const (
	Subscribed   Type = "subscribe"
	Unsubscribed Type = "unsubscribe"
	Liked        Type = "like"
	Unliked      Type = "unlike"
	PostWritten  Type = "post"
	Commented    Type = "comment"
)

// Target types
const (
	TargetUser = "user"
	TargetPost = "post"
)

// Event describes one mutation. Ids are hex ObjectIDs.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	RecipientID string    `json:"recipient_id,omitempty"`
	TargetID    string    `json:"target_id"`
	TargetType  string    `json:"target_type"`
	At          time.Time `json:"at"`
}

// NewEvent stamps an event with a fresh id and the current time
func NewEvent(t Type, actor *models.User, recipientID, targetID, targetType string) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		ActorID:     actor.ID.Hex(),
		ActorName:   actor.FullName(),
		RecipientID: recipientID,
		TargetID:    targetID,
		TargetType:  targetType,
		At:          time.Now().UTC(),
	}
}

// Recorder persists or forwards events
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Nop discards events
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

// Multi fans an event out to every recorder and joins their errors
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit records e and logs a failure instead of returning it
func Emit(ctx context.Context, rec Recorder, log *zap.Logger, e Event) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, e); err != nil {
		log.Warn("activity not recorded",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Error(err))
	}
}
