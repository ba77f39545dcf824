package alerting

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"garden-hub/backend/pkg/utils"
)

// Outcome is the dispatcher's decision for one alert.
type Outcome string

const (
	// OutcomeSent means the notification was delivered.
	OutcomeSent Outcome = "sent"
	// OutcomeSuppressedDisabled means notifications are disabled or no
	// destination is configured.
	OutcomeSuppressedDisabled Outcome = "suppressed_disabled"
	// OutcomeSuppressedCooldown means the kind was notified recently and is
	// still cooling down.
	OutcomeSuppressedCooldown Outcome = "suppressed_cooldown"
	// OutcomeFailed means a send was attempted and the collaborator
	// reported an error. The cooldown is left untouched so the next
	// qualifying alert may retry.
	OutcomeFailed Outcome = "failed"
)

// Notifier delivers a notification to its destination.
type Notifier interface {
	Send(ctx context.Context, destination string, alert Alert) error
}

// NotifyConfig is the user-facing notification configuration.
type NotifyConfig struct {
	Enabled     bool
	Destination string
}

// Dispatcher rate-limits outbound notifications per alert kind. Its cooldown
// is independent of the Monitor's: an alert re-firing every 30 seconds only
// reaches the destination once per five minutes.
type Dispatcher struct {
	l        *slog.Logger
	notifier Notifier

	mu       sync.Mutex
	lastSent map[Kind]time.Time
}

func NewDispatcher(l *slog.Logger, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		l:        l.With(slog.String("component", "dispatcher")),
		notifier: notifier,
		lastSent: make(map[Kind]time.Time),
	}
}

// MaybeNotify attempts to deliver one fired alert. The cooldown timestamp is
// recorded only after a successful send, so a failed delivery can be retried
// by the next qualifying alert instead of being silenced for five minutes.
// The returned error accompanies OutcomeFailed and is recoverable.
func (d *Dispatcher) MaybeNotify(ctx context.Context, alert Alert, cfg NotifyConfig, now time.Time) (Outcome, error) {
	if !cfg.Enabled || cfg.Destination == "" {
		return OutcomeSuppressedDisabled, nil
	}

	if d.notifier == nil {
		return OutcomeSuppressedDisabled, nil
	}

	// The lock spans the send so the cooldown check always sees the
	// freshest timestamp. Events arrive one at a time, so this does not
	// serialize anything that was concurrent to begin with.
	d.mu.Lock()
	defer d.mu.Unlock()

	last, seen := d.lastSent[alert.Kind]
	if seen && now.Sub(last) < NotifyCooldown {
		return OutcomeSuppressedCooldown, nil
	}

	if err := d.notifier.Send(ctx, cfg.Destination, alert); err != nil {
		d.l.Warn("notification send failed",
			slog.String("kind", string(alert.Kind)),
			utils.ErrAttr(err),
		)

		return OutcomeFailed, fmt.Errorf("failed to send %s notification: %w", alert.Kind, err)
	}

	d.lastSent[alert.Kind] = now

	d.l.Info("notification sent",
		slog.String("kind", string(alert.Kind)),
		slog.Float64("value", alert.Value),
		slog.Float64("threshold", alert.Threshold),
	)

	return OutcomeSent, nil
}

// Reset clears all cooldown bookkeeping.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastSent = make(map[Kind]time.Time)
}
