package model

import (
	"time"

	"telegram-group-guardian/internal/domain"
)

// Group is a moderated chat. It is the single source of truth for the lock
// state machines: handlers and the policy clock both read and mutate this
// record through the repository, never a handler-local copy.
type Group struct {
	ID    int64 // external Telegram chat id
	Title string

	IsLocked  bool
	LockUntil *time.Time // nil while unlocked or when the lock is indefinite

	NightLockActive    bool
	NightDisabledUntil *time.Time // one-night override, expires on its own
	LastNightApplied   *time.Time
	LastNightReleased  *time.Time
	LastNightWarned    *time.Time

	CreatedAt time.Time
}

// NewGroup registers a chat. Invariant: a new group starts unlocked and with
// the night lock opted out.
func NewGroup(id int64, title string, now time.Time) (*Group, error) {
	if id == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Group{
		ID:        id,
		Title:     title,
		CreatedAt: now,
	}, nil
}

// Lock marks the group locked. A nil until means indefinite.
func (g *Group) Lock(until *time.Time) {
	g.IsLocked = true
	g.LockUntil = until
}

// Unlock clears both the lock flag and any expiry, preserving the
// IsLocked=false => LockUntil=nil invariant.
func (g *Group) Unlock() {
	g.IsLocked = false
	g.LockUntil = nil
}

// LockExpired reports whether a timed manual lock has passed its expiry.
// Indefinite locks never expire.
func (g *Group) LockExpired(now time.Time) bool {
	return g.IsLocked && g.LockUntil != nil && now.After(*g.LockUntil)
}

// NightSuppressed reports whether a one-night override is still in effect.
func (g *Group) NightSuppressed(now time.Time) bool {
	return g.NightDisabledUntil != nil && g.NightDisabledUntil.After(now)
}

// NightOwnsLock reports whether the current lock was put in place by the
// night scheduler and has not been released since. A manual lock with a live
// expiry always belongs to the admin who set it.
func (g *Group) NightOwnsLock(now time.Time) bool {
	if g.LockUntil != nil && g.LockUntil.After(now) {
		return false
	}
	if g.LastNightApplied == nil {
		return false
	}
	return g.LastNightReleased == nil || g.LastNightReleased.Before(*g.LastNightApplied)
}
