package activity

import (
	"context"

	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
)

var notificationMessages = map[Type]string{
	Subscribed: " started following you",
	Liked:      " liked your post",
	Commented:  " commented on your post",
}

// NotificationRecorder turns subscribe, like and comment events into
// notifications for the affected user.
type NotificationRecorder struct {
	repo repositories.NotificationRepository
}

// NewNotificationRecorder creates a NotificationRecorder
func NewNotificationRecorder(repo repositories.NotificationRepository) *NotificationRecorder {
	return &NotificationRecorder{repo: repo}
}

// Record stores a notification; other event types and self-actions are skipped
func (n *NotificationRecorder) Record(_ context.Context, e Event) error {
	suffix, ok := notificationMessages[e.Type]
	if !ok || e.RecipientID == "" || e.RecipientID == e.ActorID {
		return nil
	}
	return n.repo.CreateNotification(&models.Notification{
		EventID:     e.ID,
		Type:        string(e.Type),
		ActorID:     e.ActorID,
		RecipientID: e.RecipientID,
		TargetID:    e.TargetID,
		TargetType:  e.TargetType,
		Message:     e.ActorName + suffix,
		CreatedAt:   e.At,
	})
}
