package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockview/internal/domain"
	"stockview/pkg/logger"
)

// DefaultChannel is the NOTIFY channel change scopes are published on.
const DefaultChannel = "stockview_changes"

// PGListener relays PostgreSQL NOTIFY events to a change notifier, so writes
// committed by another instance invalidate this instance's view cache.
type PGListener struct {
	pool    *pgxpool.Pool
	channel string
	target  domain.ChangeNotifier

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewPGListener creates a listener. An empty channel uses DefaultChannel.
func NewPGListener(pool *pgxpool.Pool, channel string, target domain.ChangeNotifier) *PGListener {
	if channel == "" {
		channel = DefaultChannel
	}
	return &PGListener{pool: pool, channel: channel, target: target}
}

// Start begins listening for NOTIFY events.
func (l *PGListener) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return nil
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.listenLoop()
	logger.Info(l.ctx, "change listener started", "channel", l.channel)
	return nil
}

// Stop gracefully stops the listener.
func (l *PGListener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
	logger.Info(context.Background(), "change listener stopped")
}

// listenLoop keeps a dedicated connection subscribed, reconnecting on failure.
func (l *PGListener) listenLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		_, err = conn.Exec(l.ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize())
		if err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		// Anything committed while we were not subscribed is unknown, so drop the cache.
		l.target.NotifyChange(l.ctx, domain.ChangeScope{Action: "resubscribed"})

		l.waitForNotifications(conn)
		conn.Release()
	}
}

// waitForNotifications blocks waiting for NOTIFY events.
func (l *PGListener) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		// Wait with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				// Timeout is expected, continue listening
				continue
			}
			logger.Warn(l.ctx, "notification wait failed, reconnecting", "error", err)
			return
		}

		l.handlePayload(notification.Payload)
	}
}

func (l *PGListener) handlePayload(payload string) {
	var scope domain.ChangeScope
	if err := json.Unmarshal([]byte(payload), &scope); err != nil {
		// Unreadable payload still means something changed.
		logger.Warn(l.ctx, "invalid change payload", "error", err)
		scope = domain.ChangeScope{Action: "unknown"}
	}
	l.target.NotifyChange(l.ctx, scope)
}
