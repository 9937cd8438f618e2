package repository

import (
	"context"

	"telegram-group-guardian/internal/domain/model"
)

// GroupRepository is the port for moderated chats.
type GroupRepository interface {
	Save(ctx context.Context, tx Tx, g *model.Group) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Group, error)
	// FindAll returns every registered group; the policy clock scans this
	// once per tick.
	FindAll(ctx context.Context, tx Tx) ([]*model.Group, error)
	// Delete removes the group row; warnings and the subscription cascade
	// with it at the storage layer.
	Delete(ctx context.Context, tx Tx, id int64) error
}
