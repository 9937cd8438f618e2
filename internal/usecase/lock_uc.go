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
var _ LockUseCase = (*lockUC)(nil)

// LockResult reports what a manual lock did.
type LockResult struct {
	Until *time.Time // nil for an indefinite lock
}

// LockUseCase is the manual lock controller. The Group row is authoritative:
// the row is written first, then the gateway call is attempted, so a failed
// restriction still records intent.
type LockUseCase interface {
	Lock(ctx context.Context, groupID int64, durationLit string, now time.Time) (*LockResult, error)
	Unlock(ctx context.Context, groupID int64) error
	// CheckExpiry releases a timed lock whose expiry has passed and notifies
	// the group. Invoked by the policy clock; reports whether it fired.
	// Indefinite locks are never auto-released here.
	CheckExpiry(ctx context.Context, g *model.Group, now time.Time) (bool, error)
}

type lockUC struct {
	groups  repository.GroupRepository
	gateway adapter.MessagingGateway
	log     *zerolog.Logger
}

func NewLockUseCase(groups repository.GroupRepository, gateway adapter.MessagingGateway, logger *zerolog.Logger) *lockUC {
	compLog := logger.With().Str("component", "LockUC").Logger()
	return &lockUC{groups: groups, gateway: gateway, log: &compLog}
}

func (uc *lockUC) Lock(ctx context.Context, groupID int64, durationLit string, now time.Time) (*LockResult, error) {
	var until *time.Time
	if durationLit != "" {
		d, err := model.ParseLockDuration(durationLit)
		if err != nil {
			return nil, err
		}
		t := now.Add(d)
		until = &t
	}

	g, err := uc.groups.FindByID(ctx, repository.NoTX, groupID)
	if err != nil {
		return nil, err
	}
	g.Lock(until)
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return nil, err
	}
	metrics.IncLocksApplied("manual")

	if err := uc.gateway.RestrictAll(ctx, g.ID, false, until); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("restrict failed; lock state recorded")
	}
	uc.log.Info().Int64("group_id", g.ID).Msg("group locked")
	return &LockResult{Until: until}, nil
}

func (uc *lockUC) Unlock(ctx context.Context, groupID int64) error {
	g, err := uc.groups.FindByID(ctx, repository.NoTX, groupID)
	if err != nil {
		return err
	}
	g.Unlock()
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return err
	}
	metrics.IncLocksReleased("manual")

	if err := uc.gateway.RestrictAll(ctx, g.ID, true, nil); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("unrestrict failed; unlock state recorded")
	}
	uc.log.Info().Int64("group_id", g.ID).Msg("group unlocked")
	return nil
}

func (uc *lockUC) CheckExpiry(ctx context.Context, g *model.Group, now time.Time) (bool, error) {
	if !g.LockExpired(now) {
		return false, nil
	}
	g.Unlock()
	if err := uc.groups.Save(ctx, repository.NoTX, g); err != nil {
		return false, err
	}
	metrics.IncLocksReleased("expiry")

	if err := uc.gateway.RestrictAll(ctx, g.ID, true, nil); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("unrestrict failed; unlock state recorded")
	}
	if err := uc.gateway.SendMessage(ctx, g.ID, msgLockExpired); err != nil {
		uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("expiry notice failed")
	}
	uc.log.Info().Int64("group_id", g.ID).Msg("timed lock expired")
	return true, nil
}
