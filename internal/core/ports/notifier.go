package ports

import (
	"context"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// Notifier hands a message off for asynchronous delivery. It must not block
// on the transport; domain.ErrNotifierUnavailable signals that the message
// could not even be queued.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// MessageSender performs the actual, synchronous delivery.
type MessageSender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// AttemptLimiter counts failed reset confirmations per user.
type AttemptLimiter interface {
	// Allowed reports whether another attempt may be made.
	Allowed(ctx context.Context, userID string) (bool, error)
	RecordFailure(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
}
