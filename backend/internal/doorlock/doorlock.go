// Package doorlock manages the door actuator as a two-state machine with a
// cancelable auto-lock timer. Unlocking opens a session and arms the timer;
// either an explicit lock or the timer firing closes the session, never both.
package doorlock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredential is returned when the supplied secret does not
	// match the stored one. The lock state is left untouched.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrInvalidDelay is returned when the requested auto-lock delay is
	// below the minimum.
	ErrInvalidDelay = errors.New("auto-lock delay must be at least one second")
	// ErrEmptySecret is returned by ChangeSecret when the new secret is
	// empty.
	ErrEmptySecret = errors.New("new secret must not be empty")
)

// MinAutoLockDelay is the smallest accepted auto-lock delay.
const MinAutoLockDelay = time.Second

// defaultSecret is assumed whenever the secret store has no value or is
// unreachable.
const defaultSecret = "1234"

// State of the door actuator.
type State string

const (
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// Session is one open-to-closed cycle of the door. At most one session is
// open at a time, and a session closes exactly once.
type Session struct {
	ID       string     `json:"id"`
	OpenedAt time.Time  `json:"openedAt"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
	// AutoClosed is meaningful only once ClosedAt is set: true when the
	// auto-lock timer closed the session, false for an explicit lock.
	AutoClosed bool `json:"autoClosed"`
}

// SecretStore holds the unlock secret.
type SecretStore interface {
	GetSecret(ctx context.Context) (string, error)
	SetSecret(ctx context.Context, secret string) error
}

// SessionStore persists lock sessions for later display.
type SessionStore interface {
	AppendSession(ctx context.Context, session Session) error
	CloseSession(ctx context.Context, id string, closedAt time.Time, autoClosed bool) error
	ListRecent(ctx context.Context, limit int) ([]Session, error)
}

// Actuator reflects lock state to the physical device.
type Actuator interface {
	SetFlag(ctx context.Context, deviceID string, on bool) error
}
