package model

import "time"

// NightWindow is the recurring daily lock window, evaluated in a fixed named
// timezone regardless of where the process runs. Persisted timestamps stay
// UTC; only the boundary comparison happens in Loc.
type NightWindow struct {
	Loc       *time.Location
	StartHour int
	EndHour   int

	// Tolerance widens each boundary so a missed tick inside it still fires.
	Tolerance time.Duration
	// WarnLead is how long before StartHour the reminder goes out.
	WarnLead time.Duration
}

// boundary returns today's instant of the given local hour.
func (w NightWindow) boundary(now time.Time, hour int) time.Time {
	local := now.In(w.Loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, w.Loc)
}

// InOpenWindow reports whether now falls within the start boundary tolerance.
func (w NightWindow) InOpenWindow(now time.Time) bool {
	open := w.boundary(now, w.StartHour)
	return !now.Before(open) && now.Before(open.Add(w.Tolerance))
}

// InCloseWindow reports whether now falls within the end boundary tolerance.
func (w NightWindow) InCloseWindow(now time.Time) bool {
	close := w.boundary(now, w.EndHour)
	return !now.Before(close) && now.Before(close.Add(w.Tolerance))
}

// InWarnWindow reports whether now falls within the pre-window reminder slot.
func (w NightWindow) InWarnWindow(now time.Time) bool {
	warn := w.boundary(now, w.StartHour).Add(-w.WarnLead)
	return !now.Before(warn) && now.Before(warn.Add(w.Tolerance))
}

// SameLocalDay compares by local calendar date, not exact timestamp, so a
// tick landing anywhere later in the same day never re-fires an action.
func (w NightWindow) SameLocalDay(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	a := t.In(w.Loc)
	b := now.In(w.Loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
