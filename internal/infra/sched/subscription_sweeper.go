package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/usecase"
)

// SubscriptionSweeper runs the subscription lifecycle sweep on a coarse
// cadence, once at startup and then per tick.
type SubscriptionSweeper struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	log      *zerolog.Logger
}

func NewSubscriptionSweeper(interval time.Duration, subUC usecase.SubscriptionUseCase, logger *zerolog.Logger) *SubscriptionSweeper {
	compLog := logger.With().Str("component", "SubscriptionSweeper").Logger()
	return &SubscriptionSweeper{interval: interval, subUC: subUC, log: &compLog}
}

func (w *SubscriptionSweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting subscription sweeper")
	w.runSweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping subscription sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

func (w *SubscriptionSweeper) runSweep(ctx context.Context) {
	report, err := w.subUC.Sweep(ctx, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("subscription sweep failed")
		return
	}
	if report.Expired > 0 || report.Warned > 0 {
		w.log.Info().Int("expired", report.Expired).Int("warned", report.Warned).Msg("subscription sweep done")
	}
}
