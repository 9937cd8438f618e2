package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/ports/adapter"
)

// AdminCache is the TTL'd capability-set store backing the authorizer.
// A miss is a normal result, not an error.
type AdminCache interface {
	Get(ctx context.Context, chatID int64) ([]int64, bool, error)
	Set(ctx context.Context, chatID int64, admins []int64, ttl time.Duration) error
	Invalidate(ctx context.Context, chatID int64) error
}

// Authorizer answers "may this user run privileged commands here". It is a
// capability-set membership test against the live admin list, cached briefly;
// it carries no business logic of its own.
type Authorizer struct {
	gateway adapter.MessagingGateway
	cache   AdminCache
	ttl     time.Duration
	log     *zerolog.Logger
}

func NewAuthorizer(gateway adapter.MessagingGateway, cache AdminCache, ttl time.Duration, logger *zerolog.Logger) *Authorizer {
	compLog := logger.With().Str("component", "Authorizer").Logger()
	return &Authorizer{gateway: gateway, cache: cache, ttl: ttl, log: &compLog}
}

// IsAdmin reports membership. Cache failures degrade to a direct gateway
// call; gateway failures deny.
func (a *Authorizer) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	if a.cache != nil {
		admins, ok, err := a.cache.Get(ctx, chatID)
		if err != nil {
			a.log.Warn().Err(err).Int64("chat_id", chatID).Msg("admin cache read failed; falling back to gateway")
		} else if ok {
			return contains(admins, userID), nil
		}
	}

	admins, err := a.gateway.ListAdmins(ctx, chatID)
	if err != nil {
		return false, err
	}
	if a.cache != nil {
		if err := a.cache.Set(ctx, chatID, admins, a.ttl); err != nil {
			a.log.Warn().Err(err).Int64("chat_id", chatID).Msg("admin cache write failed")
		}
	}
	return contains(admins, userID), nil
}

// Require is IsAdmin with the deny folded into a domain error.
func (a *Authorizer) Require(ctx context.Context, chatID, userID int64) error {
	ok, err := a.IsAdmin(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotAdmin
	}
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
