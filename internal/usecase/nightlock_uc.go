package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/metrics"
)

// Compile-time check
var _ NightLockUseCase = (*nightLockUC)(nil)

// NightLockUseCase drives the recurring nightly lock window. Every guard is
// re-evaluated from the persisted Group row on each call, and every fire is
// de-duplicated by local calendar date, so a 60s tick cadence over the whole
// window acts at most once per day.
type NightLockUseCase interface {
	Enable(ctx context.Context, groupID int64) error
	Disable(ctx context.Context, groupID int64) error
	// DisableForTonight suppresses the next application for the configured
	// override window (one-shot, expires on its own).
	DisableForTonight(ctx context.Context, groupID int64, now time.Time) (time.Time, error)

	// ApplyIfDue locks the group at window open; reports whether it fired.
	ApplyIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
	// ReleaseIfDue unlocks at window close, unless an admin's lock owns the
	// group; reports whether it fired.
	ReleaseIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
	// WarnIfDue sends the pre-window reminder; reports whether it fired.
	WarnIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
}

type nightLockUC struct {
	window   model.NightWindow
	override time.Duration
	groups   repository.GroupRepository
	gateway  adapter.MessagingGateway
	log      *zerolog.Logger
}

func NewNightLockUseCase(window model.NightWindow, override time.Duration, groups repository.GroupRepository, gateway adapter.MessagingGateway, logger *zerolog.Logger) *nightLockUC {
	compLog := logger.With().Str("component", "NightLockUC").Logger()
	return &nightLockUC{
		window:   window,
		override: override,
		groups:   groups,
		gateway:  gateway,
		log:      &compLog,
	}
}

func (uc *nightLockUC) Enable(ctx context.Context, groupID int64) error {
	return uc.setActive(ctx, groupID, true)
}

func (uc *nightLockUC) Disable(ctx context.Context, groupID int64) error {
	return uc.setActive(ctx, groupID, false)
}

func (uc *nightLockUC) setActive(ctx context.Context, groupID int64, active bool) error {
	g, err := uc.groups.FindByID(ctx, repository.NoTX, groupID)
	if err != nil {
		return err
	}
	g.NightLockActive = active
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return err
	}
	uc.log.Info().Int64("group_id", groupID).Bool("active", active).Msg("night lock toggled")
	return nil
}

// DisableForTonight persists the override on the Group row rather than in
// process memory, so it survives restarts and stays consistent across
// multiple driver instances.
func (uc *nightLockUC) DisableForTonight(ctx context.Context, groupID int64, now time.Time) (time.Time, error) {
	g, err := uc.groups.FindByID(ctx, repository.NoTX, groupID)
	if err != nil {
		return time.Time{}, err
	}
	until := now.Add(uc.override)
	g.NightDisabledUntil = &until
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return time.Time{}, err
	}
	uc.log.Info().Int64("group_id", groupID).Time("until", until).Msg("night lock suppressed for tonight")
	return until, nil
}

func (uc *nightLockUC) ApplyIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error) {
	if !g.NightLockActive {
		return false, nil
	}
	// A pre-existing lock, manual or last night's, blocks re-application.
	if g.IsLocked {
		return false, nil
	}
	if g.NightSuppressed(now) {
		return false, nil
	}
	if uc.window.SameLocalDay(g.LastNightApplied, now) {
		return false, nil
	}
	if !uc.window.InOpenWindow(now) {
		return false, nil
	}

	g.Lock(nil)
	applied := now
	g.LastNightApplied = &applied
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return false, err
	}
	metrics.IncLocksApplied("night")

	if err := uc.gateway.RestrictAll(ctx, g.ID, false, nil); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("night restrict failed; lock state recorded")
	}
	if err := uc.gateway.SendMessage(ctx, g.ID, msgNightLockStart); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("night start notice failed")
	}
	uc.log.Info().Int64("group_id", g.ID).Msg("night lock applied")
	return true, nil
}

func (uc *nightLockUC) ReleaseIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error) {
	if !g.IsLocked {
		return false, nil
	}
	if uc.window.SameLocalDay(g.LastNightReleased, now) {
		return false, nil
	}
	if !uc.window.InCloseWindow(now) {
		return false, nil
	}
	// An admin's lock outlives the window: a live timed lock, or any lock
	// the night scheduler did not itself apply, is left alone.
	if !g.NightOwnsLock(now) {
		return false, nil
	}

	g.Unlock()
	released := now
	g.LastNightReleased = &released
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return false, err
	}
	metrics.IncLocksReleased("night")

	if err := uc.gateway.RestrictAll(ctx, g.ID, true, nil); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("night unrestrict failed; unlock state recorded")
	}
	if err := uc.gateway.SendMessage(ctx, g.ID, msgNightLockEnd); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("night end notice failed")
	}
	uc.log.Info().Int64("group_id", g.ID).Msg("night lock released")
	return true, nil
}

func (uc *nightLockUC) WarnIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error) {
	if !g.NightLockActive {
		return false, nil
	}
	if g.NightSuppressed(now) {
		return false, nil
	}
	if uc.window.SameLocalDay(g.LastNightWarned, now) {
		return false, nil
	}
	if !uc.window.InWarnWindow(now) {
		return false, nil
	}

	warned := now
	g.LastNightWarned = &warned
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return false, err
	}
	if err := uc.gateway.SendMessage(ctx, g.ID, msgNightLockWarn); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("night reminder failed")
	}
	return true, nil
}
