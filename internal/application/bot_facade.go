package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/metrics"
	"telegram-group-guardian/internal/usecase"
)

// BotFacade joins the moderation use cases behind the command surface.
// Every method returns the reply text for the invoking chat; validation and
// authorization problems become replies, not errors, so a handler never has
// to distinguish them. The now func is injectable for tests.
type BotFacade struct {
	groupUC usecase.GroupUseCase
	warnUC  usecase.WarningUseCase
	lockUC  usecase.LockUseCase
	nightUC usecase.NightLockUseCase
	subUC   usecase.SubscriptionUseCase
	auth    *usecase.Authorizer
	gateway adapter.MessagingGateway

	maxWarnings  int
	muteDuration time.Duration
	now          func() time.Time
	log          *zerolog.Logger
}

func NewBotFacade(
	groupUC usecase.GroupUseCase,
	warnUC usecase.WarningUseCase,
	lockUC usecase.LockUseCase,
	nightUC usecase.NightLockUseCase,
	subUC usecase.SubscriptionUseCase,
	auth *usecase.Authorizer,
	gateway adapter.MessagingGateway,
	maxWarnings int,
	muteDuration time.Duration,
	logger *zerolog.Logger,
) *BotFacade {
	compLog := logger.With().Str("component", "BotFacade").Logger()
	return &BotFacade{
		groupUC:      groupUC,
		warnUC:       warnUC,
		lockUC:       lockUC,
		nightUC:      nightUC,
		subUC:        subUC,
		auth:         auth,
		gateway:      gateway,
		maxWarnings:  maxWarnings,
		muteDuration: muteDuration,
		now:          time.Now,
		log:          &compLog,
	}
}

// WithClock overrides the time source. Test hook.
func (f *BotFacade) WithClock(now func() time.Time) *BotFacade {
	f.now = now
	return f
}

func (f *BotFacade) RegisterGroup(ctx context.Context, chatID int64, title string) (string, error) {
	g, err := f.groupUC.Register(ctx, chatID, title, f.now())
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Sprintf("✅ %s is already registered.", g.Title), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Group registered: %s", g.Title), nil
}

// WarnUser records an infraction and escalates to a timed mute exactly when
// the counter reaches the threshold.
func (f *BotFacade) WarnUser(ctx context.Context, chatID, adminID, targetID int64, username string) (string, error) {
	if reply, err := f.authorize(ctx, chatID, adminID); reply != "" || err != nil {
		return reply, err
	}
	count, err := f.warnUC.Warn(ctx, chatID, targetID, username, f.now())
	if err != nil {
		return "", err
	}
	if count == f.maxWarnings {
		until := f.now().Add(f.muteDuration)
		if err := f.gateway.RestrictMember(ctx, chatID, targetID, false, &until); err != nil {
			f.log.Warn().Err(err).Int64("chat_id", chatID).Int64("user_id", targetID).Msg("escalation mute failed")
		}
		metrics.IncMutes()
		return fmt.Sprintf("🔇 %s reached %d warnings and is muted for an hour.", username, count), nil
	}
	return fmt.Sprintf("⚠️ %s now has %d/%d warnings.", username, count, f.maxWarnings), nil
}

func (f *BotFacade) ForgiveUser(ctx context.Context, chatID, adminID, targetID int64, amount int) (string, error) {
	if reply, err := f.authorize(ctx, chatID, adminID); reply != "" || err != nil {
		return reply, err
	}
	count, err := f.warnUC.Forgive(ctx, chatID, targetID, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("👌 Warnings reduced. Current count: %d.", count), nil
}

func (f *BotFacade) WarnCount(ctx context.Context, chatID, userID int64) (string, error) {
	count, err := f.warnUC.Count(ctx, chatID, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Current warnings: %d/%d.", count, f.maxWarnings), nil
}

func (f *BotFacade) LockGroup(ctx context.Context, chatID, adminID int64, durationLit string) (string, error) {
	if reply, err := f.authorize(ctx, chatID, adminID); reply != "" || err != nil {
		return reply, err
	}
	res, err := f.lockUC.Lock(ctx, chatID, durationLit, f.now())
	if errors.Is(err, domain.ErrInvalidDuration) {
		return "Usage: /lock [<number><s|m|h|d>], e.g. /lock 10m", nil
	}
	if err != nil {
		return "", err
	}
	if res.Until != nil {
		return fmt.Sprintf("🔒 Group locked until %s.", res.Until.UTC().Format("15:04 Jan 2")), nil
	}
	return "🔒 Group locked until an admin unlocks it.", nil
}

func (f *BotFacade) UnlockGroup(ctx context.Context, chatID, adminID int64) (string, error) {
	if reply, err := f.authorize(ctx, chatID, adminID); reply != "" || err != nil {
		return reply, err
	}
	if err := f.lockUC.Unlock(ctx, chatID); err != nil {
		return "", err
	}
	return "🔓 Group unlocked.", nil
}

// NightLock handles the on|off|tonight subcommands.
func (f *BotFacade) NightLock(ctx context.Context, chatID, adminID int64, arg string) (string, error) {
	if reply, err := f.authorize(ctx, chatID, adminID); reply != "" || err != nil {
		return reply, err
	}
	switch arg {
	case "on":
		if err := f.nightUC.Enable(ctx, chatID); err != nil {
			return "", err
		}
		return "🌙 Night mode enabled. The group will lock automatically each night.", nil
	case "off":
		if err := f.nightUC.Disable(ctx, chatID); err != nil {
			return "", err
		}
		return "Night mode disabled.", nil
	case "tonight":
		until, err := f.nightUC.DisableForTonight(ctx, chatID, f.now())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Tonight is skipped: no night lock before %s.", until.UTC().Format("15:04")), nil
	default:
		return "Usage: /nightlock on|off|tonight", nil
	}
}

func (f *BotFacade) Status(ctx context.Context, chatID int64) (string, error) {
	g, err := f.groupUC.Get(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return "This group is not registered. Send /start first.", nil
	}
	if err != nil {
		return "", err
	}

	lock := "unlocked"
	if g.IsLocked {
		lock = "locked indefinitely"
		if g.LockUntil != nil {
			lock = fmt.Sprintf("locked until %s", g.LockUntil.UTC().Format("15:04 Jan 2"))
		}
	}
	night := "off"
	if g.NightLockActive {
		night = "on"
	}

	days, err := f.subUC.DaysRemaining(ctx, chatID, f.now())
	if errors.Is(err, domain.ErrNoSubscription) {
		return fmt.Sprintf("📋 %s\nLock: %s\nNight mode: %s\nSubscription: none", g.Title, lock, night), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📋 %s\nLock: %s\nNight mode: %s\nSubscription: %d days left", g.Title, lock, night, days), nil
}

// authorize maps a denial to a reply and leaves real failures as errors.
func (f *BotFacade) authorize(ctx context.Context, chatID, userID int64) (string, error) {
	err := f.auth.Require(ctx, chatID, userID)
	if errors.Is(err, domain.ErrNotAdmin) {
		return "Only group admins can use this command.", nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}
