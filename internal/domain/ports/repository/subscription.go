package repository

import (
	"context"

	"telegram-group-guardian/internal/domain/model"
)

// SubscriptionRepository is the port for per-group access windows.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.GroupSubscription) error
	FindByGroup(ctx context.Context, tx Tx, groupID int64) (*model.GroupSubscription, error)
}
