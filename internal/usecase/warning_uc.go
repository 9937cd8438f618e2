package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/metrics"
)

// Compile-time check
var _ WarningUseCase = (*warningUC)(nil)

// WarningUseCase is the per-(group,user) infraction counter. It is a pure
// counter: deciding whether the returned count warrants a mute, and issuing
// it, belongs to the caller.
type WarningUseCase interface {
	// Warn records one infraction and returns the new count.
	Warn(ctx context.Context, groupID, userID int64, username string, now time.Time) (int, error)
	// Forgive lowers the counter by amount, floored at zero. A never-warned
	// user yields 0 with no writes.
	Forgive(ctx context.Context, groupID, userID int64, amount int) (int, error)
	// Count is a read-only lookup; absent records read as 0.
	Count(ctx context.Context, groupID, userID int64) (int, error)
}

type warningUC struct {
	warnings repository.WarningRepository
	log      *zerolog.Logger
}

func NewWarningUseCase(warnings repository.WarningRepository, logger *zerolog.Logger) *warningUC {
	compLog := logger.With().Str("component", "WarningUC").Logger()
	return &warningUC{warnings: warnings, log: &compLog}
}

// Warn is a read-modify-write on a single key. Two concurrent warnings for
// the same user may race last-write-wins; different users never interfere.
func (uc *warningUC) Warn(ctx context.Context, groupID, userID int64, username string, now time.Time) (int, error) {
	w, err := uc.warnings.Find(ctx, repository.NoTX, groupID, userID)
	switch {
	case err == nil:
		w.Add(username, now)
	case errors.Is(err, domain.ErrNotFound):
		w, err = model.NewWarning(groupID, userID, username, now)
		if err != nil {
			return 0, err
		}
	default:
		return 0, err
	}
	if err := uc.warnings.Save(ctx, repository.NoTX, w); err != nil {
		return 0, err
	}
	metrics.IncWarningsIssued()
	uc.log.Info().Int64("group_id", groupID).Int64("user_id", userID).Int("count", w.Count).Msg("warning issued")
	return w.Count, nil
}

func (uc *warningUC) Forgive(ctx context.Context, groupID, userID int64, amount int) (int, error) {
	if amount <= 0 {
		amount = 1
	}
	w, err := uc.warnings.Find(ctx, repository.NoTX, groupID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	w.Forgive(amount)
	if err := uc.warnings.Save(ctx, repository.NoTX, w); err != nil {
		return 0, err
	}
	uc.log.Info().Int64("group_id", groupID).Int64("user_id", userID).Int("count", w.Count).Msg("warnings forgiven")
	return w.Count, nil
}

func (uc *warningUC) Count(ctx context.Context, groupID, userID int64) (int, error) {
	w, err := uc.warnings.Find(ctx, repository.NoTX, groupID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return w.Count, nil
}
