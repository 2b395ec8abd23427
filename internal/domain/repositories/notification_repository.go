package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/google/uuid"
)

// NotificationRepository defines notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
