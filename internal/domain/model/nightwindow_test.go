package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-group-guardian/internal/domain/model"
)

func tehranWindow(t *testing.T) model.NightWindow {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)
	return model.NightWindow{
		Loc:       loc,
		StartHour: 2,
		EndHour:   7,
		Tolerance: 30 * time.Minute,
		WarnLead:  15 * time.Minute,
	}
}

func TestNightWindowBoundaries(t *testing.T) {
	w := tehranWindow(t)
	day := func(h, m int) time.Time {
		return time.Date(2025, 3, 10, h, m, 0, 0, w.Loc)
	}

	assert.True(t, w.InOpenWindow(day(2, 0)))
	assert.True(t, w.InOpenWindow(day(2, 29)))
	assert.False(t, w.InOpenWindow(day(1, 59)))
	assert.False(t, w.InOpenWindow(day(2, 30)))

	assert.True(t, w.InCloseWindow(day(7, 4)))
	assert.False(t, w.InCloseWindow(day(6, 59)))
	assert.False(t, w.InCloseWindow(day(7, 30)))

	assert.True(t, w.InWarnWindow(day(1, 45)))
	assert.True(t, w.InWarnWindow(day(1, 46)))
	assert.False(t, w.InWarnWindow(day(1, 44)))
}

func TestNightWindowHostZoneIndependence(t *testing.T) {
	w := tehranWindow(t)

	// 02:03 Tehran expressed in UTC still opens the window.
	utcInstant := time.Date(2025, 3, 10, 2, 3, 0, 0, w.Loc).UTC()
	assert.True(t, w.InOpenWindow(utcInstant))
}

func TestSameLocalDay(t *testing.T) {
	w := tehranWindow(t)

	applied := time.Date(2025, 3, 10, 2, 3, 0, 0, w.Loc)
	assert.True(t, w.SameLocalDay(&applied, time.Date(2025, 3, 10, 23, 59, 0, 0, w.Loc)))
	assert.False(t, w.SameLocalDay(&applied, time.Date(2025, 3, 11, 2, 3, 0, 0, w.Loc)))
	assert.False(t, w.SameLocalDay(nil, applied))

	// Instants on either side of Tehran midnight differ by date even when
	// their UTC dates agree.
	before := time.Date(2025, 3, 10, 23, 50, 0, 0, w.Loc)
	after := time.Date(2025, 3, 11, 0, 10, 0, 0, w.Loc)
	assert.False(t, w.SameLocalDay(&before, after))
}

func TestNightOwnsLock(t *testing.T) {
	w := tehranWindow(t)
	now := time.Date(2025, 3, 10, 7, 4, 0, 0, w.Loc)

	g := &model.Group{ID: 1, IsLocked: true}
	assert.False(t, g.NightOwnsLock(now), "manual indefinite lock")

	applied := time.Date(2025, 3, 10, 2, 3, 0, 0, w.Loc)
	g.LastNightApplied = &applied
	assert.True(t, g.NightOwnsLock(now), "tonight's apply, unreleased")

	released := now
	g.LastNightReleased = &released
	assert.False(t, g.NightOwnsLock(now.Add(time.Minute)), "already released")

	until := now.Add(6 * time.Hour)
	g.LastNightReleased = nil
	g.LockUntil = &until
	assert.False(t, g.NightOwnsLock(now), "live timed manual lock wins")
}
