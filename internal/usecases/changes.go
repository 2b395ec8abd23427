package usecases

import (
	"context"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/TRAPZZY/AGRO--007-sub000/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// change is a pending change event, encoded only when published
type change struct {
	table string
	typ   entities.ChangeType
	new   interface{}
	old   interface{}
}

func inserted(table string, row interface{}) change {
	return change{table: table, typ: entities.ChangeInsert, new: row}
}

func updated(table string, row, old interface{}) change {
	return change{table: table, typ: entities.ChangeUpdate, new: row, old: old}
}

func deleted(table string, old interface{}) change {
	return change{table: table, typ: entities.ChangeDelete, old: old}
}

// publish sends committed changes to the feed. Failures are logged and
// otherwise ignored; subscribers recover on their next refetch.
func publish(ctx context.Context, feed repositories.ChangeFeed, changes ...change) {
	if feed == nil {
		return
	}
	for _, c := range changes {
		ev, err := entities.NewChangeEvent(c.table, c.typ, c.new, c.old)
		if err == nil {
			err = feed.Publish(ctx, ev)
		}
		if err != nil {
			logger.Warn(ctx, "Failed to publish change event",
				zap.String("table", c.table),
				zap.String("type", string(c.typ)),
				zap.Error(err),
			)
		}
	}
}

func newNotification(userID uuid.UUID, typ entities.NotificationType, title, message, actionURL string) *entities.Notification {
	n := &entities.Notification{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if actionURL != "" {
		n.ActionURL = null.StringFrom(actionURL)
	}
	return n
}

func notificationChanges(notes []*entities.Notification) []change {
	out := make([]change, 0, len(notes))
	for _, n := range notes {
		out = append(out, inserted(entities.TableNotifications, n))
	}
	return out
}
