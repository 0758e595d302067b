package hatim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// NotifyChannel is the channel the hatims update trigger publishes on.
const NotifyChannel = "hatim_updated"

const (
	defaultRetryDelay = 5 * time.Second
	changeBuffer      = 64
)

// Listener turns NOTIFY payloads from the hatims trigger into hatim changes.
// It holds one dedicated connection outside the gorm pool and reconnects
// after failures until its context ends.
type Listener struct {
	connString string
	log        logger.Logger
	retryDelay time.Duration
	changes    chan hatimdomain.Change
}

func NewListener(connString string, log logger.Logger) *Listener {
	return &Listener{
		connString: connString,
		log:        log,
		retryDelay: defaultRetryDelay,
		changes:    make(chan hatimdomain.Change, changeBuffer),
	}
}

func (l *Listener) Changes() <-chan hatimdomain.Change {
	return l.changes
}

// Run blocks until ctx is done, then closes the changes channel.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.changes)

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.log.Error("hatim listener: connection lost", "err", err, "retry_in", l.retryDelay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info("hatim listener: listening", "channel", NotifyChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		change, err := DecodeChange(notification.Payload)
		if err != nil {
			l.log.Warn("hatim listener: bad payload", "err", err, "payload", notification.Payload)
			continue
		}

		select {
		case l.changes <- change:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func DecodeChange(payload string) (hatimdomain.Change, error) {
	var change hatimdomain.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return hatimdomain.Change{}, fmt.Errorf("decode change: %w", err)
	}
	if change.HatimID == "" {
		return hatimdomain.Change{}, fmt.Errorf("decode change: missing id")
	}
	return change, nil
}
