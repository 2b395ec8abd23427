package usecases

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/google/uuid"
)

const defaultNotificationLimit = 50

// NotificationUsecase reads and acknowledges a user's notifications
type NotificationUsecase struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationUsecase(notificationRepo repositories.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notificationRepo: notificationRepo}
}

// List returns p's notifications, newest first
func (u *NotificationUsecase) List(ctx context.Context, p entities.Principal, unreadOnly bool, limit int) ([]*entities.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return u.notificationRepo.List(ctx, p.UserID(), unreadOnly, limit)
}

// MarkRead marks one of p's notifications read
func (u *NotificationUsecase) MarkRead(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	return u.notificationRepo.MarkRead(ctx, id, p.UserID())
}

// MarkAllRead marks every notification of p read and returns how many changed
func (u *NotificationUsecase) MarkAllRead(ctx context.Context, p entities.Principal) (int64, error) {
	return u.notificationRepo.MarkAllRead(ctx, p.UserID())
}
