package sched

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/metrics"
)

// LockChecker is the slice of the lock controller the clock drives.
type LockChecker interface {
	CheckExpiry(ctx context.Context, g *model.Group, now time.Time) (bool, error)
}

// NightScheduler is the slice of the night-lock state machine the clock drives.
type NightScheduler interface {
	WarnIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
	ApplyIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
	ReleaseIfDue(ctx context.Context, g *model.Group, now time.Time) (bool, error)
}

// PolicyClock is the periodic driver for the time-based transitions. One
// pass fully completes before the next tick is consumed, so two passes never
// overlap and no action can double-fire from the clock itself.
type PolicyClock struct {
	interval time.Duration
	groups   repository.GroupRepository
	locks    LockChecker
	night    NightScheduler
	log      *zerolog.Logger
}

func NewPolicyClock(interval time.Duration, groups repository.GroupRepository, locks LockChecker, night NightScheduler, logger *zerolog.Logger) *PolicyClock {
	compLog := logger.With().Str("component", "PolicyClock").Logger()
	return &PolicyClock{
		interval: interval,
		groups:   groups,
		locks:    locks,
		night:    night,
		log:      &compLog,
	}
}

func (c *PolicyClock) Run(ctx context.Context) error {
	c.log.Info().Dur("interval", c.interval).Msg("starting policy clock")
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("stopping policy clock")
			return ctx.Err()
		case <-ticker.C:
			c.RunPass(ctx, time.Now())
		}
	}
}

// RunPass evaluates every group once. Order per group is fixed: a manual
// lock's expiry must resolve before the night lock asks "already locked?",
// and the reminder must run before an apply in the same pass can fire.
func (c *PolicyClock) RunPass(ctx context.Context, now time.Time) {
	passLog := c.log.With().Str("pass_id", uuid.NewString()).Logger()

	groups, err := c.groups.FindAll(ctx, repository.NoTX)
	if err != nil {
		passLog.Error().Err(err).Msg("listing groups failed; skipping pass")
		metrics.IncPolicyTickErrors()
		return
	}

	for _, g := range groups {
		if err := c.evaluate(ctx, g, now); err != nil {
			// Failure is isolated per group and retried next tick.
			passLog.Error().Err(err).Int64("group_id", g.ID).Msg("policy evaluation failed for group")
			metrics.IncPolicyTickErrors()
		}
	}
}

func (c *PolicyClock) evaluate(ctx context.Context, g *model.Group, now time.Time) error {
	if _, err := c.locks.CheckExpiry(ctx, g, now); err != nil {
		return err
	}
	if _, err := c.night.WarnIfDue(ctx, g, now); err != nil {
		return err
	}
	if _, err := c.night.ApplyIfDue(ctx, g, now); err != nil {
		return err
	}
	if _, err := c.night.ReleaseIfDue(ctx, g, now); err != nil {
		return err
	}
	return nil
}
