package live

import (
	"context"

	"gorm.io/gorm"
)

// Notifier announces that reviews for a judge changed.
type Notifier interface {
	Notify(ctx context.Context, slug string) error
}

// LocalNotifier publishes straight to an in-process hub.
type LocalNotifier struct {
	Hub *Hub
}

func (n LocalNotifier) Notify(_ context.Context, slug string) error {
	n.Hub.Publish(slug)
	return nil
}

// PGNotifier issues pg_notify so every instance listening on Channel sees
// the change, this one included.
type PGNotifier struct {
	DB      *gorm.DB
	Channel string
}

func (n PGNotifier) Notify(ctx context.Context, slug string) error {
	return n.DB.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", n.Channel, slug).Error
}
