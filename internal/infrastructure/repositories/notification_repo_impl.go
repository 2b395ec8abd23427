package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// NotificationRepository implements notification data operations
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	m := &models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		ActionURL: n.ActionURL.Ptr(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	return domainerrors.TranslateStorage(GetDB(ctx, r.db).Create(m).Error)
}

// List returns a user's notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*entities.Notification, error) {
	query := GetDB(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	query = paginate(query, limit, 0)

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, domainerrors.TranslateStorage(err)
	}
	items := make([]*entities.Notification, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		items = append(items, &entities.Notification{
			ID:        m.ID,
			UserID:    m.UserID,
			Title:     m.Title,
			Message:   m.Message,
			Type:      entities.NotificationType(m.Type),
			ActionURL: null.StringFromPtr(m.ActionURL),
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

// MarkRead marks one of the user's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return domainerrors.TranslateStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := GetDB(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, domainerrors.TranslateStorage(result.Error)
	}
	return result.RowsAffected, nil
}
