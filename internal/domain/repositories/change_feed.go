package repositories

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
)

// Subscription is a live stream of change events for one table
type Subscription interface {
	Events() <-chan entities.ChangeEvent
	Close()
}

// ChangeFeed distributes row-level change events
type ChangeFeed interface {
	Publish(ctx context.Context, event entities.ChangeEvent) error
	// Subscribe streams events for table; a non-nil filter is applied before delivery.
	Subscribe(table string, filter *entities.Filter) Subscription
}
