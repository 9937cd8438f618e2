package model

import (
	"time"

	"telegram-group-guardian/internal/domain"
)

// GroupSubscription is the rolling access window that gates whether the bot
// keeps servicing a group. One row per group; deleted together with it.
type GroupSubscription struct {
	GroupID   int64
	StartDate time.Time
	EndDate   time.Time
	Warned    bool // pre-expiry notice already sent
}

// NewGroupSubscription provisions the window at registration time.
// Invariant: EndDate >= StartDate.
func NewGroupSubscription(groupID int64, now time.Time, days int) (*GroupSubscription, error) {
	if groupID == 0 || days <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &GroupSubscription{
		GroupID:   groupID,
		StartDate: now,
		EndDate:   now.Add(time.Duration(days) * 24 * time.Hour),
	}, nil
}

// DaysRemaining is the whole number of 24h periods left before EndDate,
// truncated toward zero. EndDate exactly 48h away reports 2; 47h reports 1.
// Negative once the window has passed.
func (s *GroupSubscription) DaysRemaining(now time.Time) int {
	return int(s.EndDate.Sub(now).Hours() / 24)
}

// Expired reports whether the access window has fully passed.
func (s *GroupSubscription) Expired(now time.Time) bool {
	return s.EndDate.Before(now)
}

// NeedsExpiryWarning reports whether the pre-expiry notice is due: inside the
// warning lead window, not yet sent, and not already expired.
func (s *GroupSubscription) NeedsExpiryWarning(now time.Time, lead time.Duration) bool {
	return !s.Warned && !s.Expired(now) && s.EndDate.Sub(now) < lead
}
