package doorlock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"garden-hub/backend/pkg/utils"
)

// Controller owns the lock state machine for one door. All transitions go
// through its mutex, so exactly one of an explicit lock and a pending timer
// firing closes a session. A timer callback that lost the race observes a
// bumped generation counter and does nothing.
type Controller struct {
	l        *slog.Logger
	deviceID string
	secrets  SecretStore
	sessions SessionStore
	actuator Actuator
	clock    Clock

	mu         sync.Mutex
	state      State
	current    *Session
	timer      Timer
	generation uint64
}

// NewController builds a controller for one door actuator. A nil clock
// selects the system clock.
func NewController(l *slog.Logger, deviceID string, secrets SecretStore, sessions SessionStore, actuator Actuator, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock()
	}

	return &Controller{
		l:        l.With(slog.String("component", "doorlock"), slog.String("device_id", deviceID)),
		deviceID: deviceID,
		secrets:  secrets,
		sessions: sessions,
		actuator: actuator,
		clock:    clock,
		state:    StateLocked,
	}
}

// Unlock validates the candidate secret and transitions to Unlocked, opening
// a session and arming the auto-lock timer. Unlocking while already unlocked
// re-arms the timer without opening a second session. Collaborator failures
// after the credential check are logged and do not block the transition.
func (c *Controller) Unlock(ctx context.Context, candidate string, delay time.Duration) (Session, error) {
	if delay < MinAutoLockDelay {
		return Session{}, ErrInvalidDelay
	}

	if candidate != c.storedSecret(ctx) {
		return Session{}, ErrInvalidCredential
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	if c.state == StateUnlocked && c.current != nil {
		// Re-entrant unlock: reset the countdown, keep the open session.
		c.armTimerLocked(delay)
		c.l.Info("auto-lock countdown reset", slog.Duration("delay", delay))

		return *c.current, nil
	}

	session := Session{
		ID:       utils.NewUUID(),
		OpenedAt: now,
	}

	c.current = &session
	c.state = StateUnlocked
	c.armTimerLocked(delay)

	if err := c.sessions.AppendSession(ctx, session); err != nil {
		c.l.Warn("failed to record lock session", utils.ErrAttr(err))
	}

	if err := c.actuator.SetFlag(ctx, c.deviceID, true); err != nil {
		c.l.Warn("failed to signal actuator", utils.ErrAttr(err))
	}

	c.l.Info("door unlocked",
		slog.String("session_id", session.ID),
		slog.Duration("delay", delay),
	)

	return session, nil
}

// Lock closes the open session with AutoClosed=false and cancels any pending
// timer. Locking an already-locked door is a no-op.
func (c *Controller) Lock(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLocked {
		return nil
	}

	c.closeLocked(ctx, false)
	c.l.Info("door locked")

	return nil
}

// ChangeSecret replaces the stored secret after verifying the old one. Lock
// state is unaffected.
func (c *Controller) ChangeSecret(ctx context.Context, oldSecret, newSecret string) error {
	if newSecret == "" {
		return ErrEmptySecret
	}

	if oldSecret != c.storedSecret(ctx) {
		return ErrInvalidCredential
	}

	if err := c.secrets.SetSecret(ctx, newSecret); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	c.l.Info("door secret changed")

	return nil
}

// State returns the current lock state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// CurrentSession returns a copy of the open session, if any.
func (c *Controller) CurrentSession() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Session{}, false
	}

	return *c.current, true
}

// RecentSessions lists the most recent sessions from the history store.
func (c *Controller) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	return c.sessions.ListRecent(ctx, limit)
}

// storedSecret reads the secret, falling back to the default when the store
// has no value or is unreachable.
func (c *Controller) storedSecret(ctx context.Context) string {
	secret, err := c.secrets.GetSecret(ctx)
	if err != nil {
		c.l.Warn("secret store unavailable, using default", utils.ErrAttr(err))
		return defaultSecret
	}

	if secret == "" {
		return defaultSecret
	}

	return secret
}

// armTimerLocked cancels any pending timer and schedules a new one. The
// callback captures the generation current at arm time; any later transition
// bumps the counter, turning a late firing into a no-op.
func (c *Controller) armTimerLocked(delay time.Duration) {
	if c.timer != nil {
		c.timer.Stop()
	}

	c.generation++
	gen := c.generation

	c.timer = c.clock.AfterFunc(delay, func() {
		c.autoLock(gen)
	})
}

func (c *Controller) autoLock(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != StateUnlocked || c.current == nil {
		// Superseded by a newer unlock or an explicit lock.
		c.l.Debug("stale auto-lock timer ignored", slog.Uint64("generation", gen))
		return
	}

	c.closeLocked(context.Background(), true)
	c.l.Info("door auto-locked")
}

// closeLocked finishes the open session and returns to Locked. Callers hold
// the mutex. Bumping the generation here invalidates any timer callback that
// already fired but has not yet acquired the lock.
func (c *Controller) closeLocked(ctx context.Context, autoClosed bool) {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.generation++

	now := c.clock.Now()
	c.current.ClosedAt = &now
	c.current.AutoClosed = autoClosed

	if err := c.sessions.CloseSession(ctx, c.current.ID, now, autoClosed); err != nil {
		c.l.Warn("failed to close lock session in history", utils.ErrAttr(err))
	}

	if err := c.actuator.SetFlag(ctx, c.deviceID, false); err != nil {
		c.l.Warn("failed to signal actuator", utils.ErrAttr(err))
	}

	c.current = nil
	c.state = StateLocked
}
