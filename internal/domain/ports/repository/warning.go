package repository

import (
	"context"

	"telegram-group-guardian/internal/domain/model"
)

// WarningRepository is the port for per-user infraction counters.
type WarningRepository interface {
	Save(ctx context.Context, tx Tx, w *model.Warning) error
	Find(ctx context.Context, tx Tx, groupID, userID int64) (*model.Warning, error)
	FindByGroup(ctx context.Context, tx Tx, groupID int64) ([]*model.Warning, error)
}
