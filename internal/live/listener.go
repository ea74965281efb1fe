package live

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultReconnectDelay = 5 * time.Second

// PGListener forwards Postgres notifications on Channel to Hub. The payload
// of each notification is a judge slug.
type PGListener struct {
	DSN            string
	Channel        string
	Hub            *Hub
	Log            *zap.Logger
	ReconnectDelay time.Duration
}

// Run listens until ctx is cancelled, reconnecting after connection errors.
func (l *PGListener) Run(ctx context.Context) error {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	delay := l.ReconnectDelay
	if delay <= 0 {
		delay = defaultReconnectDelay
	}

	for {
		err := l.listen(ctx, log)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("review listener disconnected", zap.String("channel", l.Channel), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (l *PGListener) listen(ctx context.Context, log *zap.Logger) error {
	conn, err := pgx.Connect(ctx, l.DSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.Channel, err)
	}
	log.Info("review listener ready", zap.String("channel", l.Channel))

	// Anything sent while we were away is lost; have every view reload.
	l.Hub.PublishAll()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.Hub.Publish(n.Payload)
	}
}
