package model

import (
	"time"

	"telegram-group-guardian/internal/domain"
)

// Warning is the per-(group,user) infraction counter. The record persists
// even when the count is driven back to zero.
type Warning struct {
	GroupID   int64
	UserID    int64
	Username  string // display cache, refreshed on every warning
	Count     int
	LastAt    time.Time
	CreatedAt time.Time
}

func NewWarning(groupID, userID int64, username string, now time.Time) (*Warning, error) {
	if groupID == 0 || userID == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Warning{
		GroupID:   groupID,
		UserID:    userID,
		Username:  username,
		Count:     1,
		LastAt:    now,
		CreatedAt: now,
	}, nil
}

// Add increments the counter and refreshes the display cache.
func (w *Warning) Add(username string, now time.Time) {
	w.Count++
	if username != "" {
		w.Username = username
	}
	w.LastAt = now
}

// Forgive lowers the counter by amount, floored at zero.
func (w *Warning) Forgive(amount int) {
	w.Count -= amount
	if w.Count < 0 {
		w.Count = 0
	}
}
