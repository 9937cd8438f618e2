package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SweepReport summarizes one pass over all groups.
type SweepReport struct {
	Expired int // groups deleted
	Warned  int // pre-expiry notices sent
}

// SubscriptionUseCase manages the rolling access window that gates bot
// service per group.
type SubscriptionUseCase interface {
	// Provision opens the window at registration time.
	Provision(ctx context.Context, tx repository.Tx, groupID int64, now time.Time) (*model.GroupSubscription, error)
	// DaysRemaining truncates remaining time to whole 24h periods.
	// Returns domain.ErrNoSubscription when no row exists.
	DaysRemaining(ctx context.Context, groupID int64, now time.Time) (int, error)
	// Sweep walks every group: past EndDate it notifies and deletes the
	// group cascade; inside the warning lead it sends one pre-expiry notice.
	// Per-group failures are logged and skipped, never abort the pass.
	Sweep(ctx context.Context, now time.Time) (*SweepReport, error)
}

type subscriptionUC struct {
	days     int
	warnDays int
	groups   repository.GroupRepository
	subs     repository.SubscriptionRepository
	gateway  adapter.MessagingGateway
	log      *zerolog.Logger
}

func NewSubscriptionUseCase(days, warnDays int, groups repository.GroupRepository, subs repository.SubscriptionRepository, gateway adapter.MessagingGateway, logger *zerolog.Logger) *subscriptionUC {
	compLog := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{
		days:     days,
		warnDays: warnDays,
		groups:   groups,
		subs:     subs,
		gateway:  gateway,
		log:      &compLog,
	}
}

func (uc *subscriptionUC) Provision(ctx context.Context, tx repository.Tx, groupID int64, now time.Time) (*model.GroupSubscription, error) {
	sub, err := model.NewGroupSubscription(groupID, now, uc.days)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (uc *subscriptionUC) DaysRemaining(ctx context.Context, groupID int64, now time.Time) (int, error) {
	sub, err := uc.subs.FindByGroup(ctx, repository.NoTX, groupID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrNoSubscription
	}
	if err != nil {
		return 0, err
	}
	return sub.DaysRemaining(now), nil
}

func (uc *subscriptionUC) Sweep(ctx context.Context, now time.Time) (*SweepReport, error) {
	groups, err := uc.groups.FindAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{}
	lead := time.Duration(uc.warnDays) * 24 * time.Hour
	for _, g := range groups {
		if err := uc.sweepGroup(ctx, g, now, lead, report); err != nil {
			uc.log.Error().Err(err).Int64("group_id", g.ID).Msg("sweep failed for group; will retry next pass")
		}
	}
	return report, nil
}

func (uc *subscriptionUC) sweepGroup(ctx context.Context, g *model.Group, now time.Time, lead time.Duration, report *SweepReport) error {
	sub, err := uc.subs.FindByGroup(ctx, repository.NoTX, g.ID)
	if errors.Is(err, domain.ErrNotFound) {
		// Registration predating the subscription table; start the clock now.
		_, err = uc.Provision(ctx, repository.NoTX, g.ID, now)
		return err
	}
	if err != nil {
		return err
	}

	switch {
	case sub.Expired(now):
		if err := uc.gateway.SendMessage(ctx, g.ID, msgSubscriptionExpired); err != nil {
			uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("expiry notice failed")
		}
		// Warnings and the subscription row cascade with the group.
		if err := uc.groups.Delete(ctx, repository.NoTX, g.ID); err != nil {
			return err
		}
		metrics.IncSubscriptionsExpired()
		report.Expired++
		uc.log.Info().Int64("group_id", g.ID).Msg("subscription expired; group removed")

	case sub.NeedsExpiryWarning(now, lead):
		sub.Warned = true
		if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
			return err
		}
		text := fmt.Sprintf(msgSubscriptionExpiring, uc.warnDays)
		if err := uc.gateway.SendMessage(ctx, g.ID, text); err != nil {
			uc.log.Warn().Err(err).Int64("group_id", g.ID).Msg("pre-expiry notice failed")
		}
		metrics.IncSubscriptionWarnings()
		report.Warned++
	}
	return nil
}
