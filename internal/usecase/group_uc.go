package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
)

// Compile-time check
var _ GroupUseCase = (*groupUC)(nil)

// GroupUseCase handles registration and lookups of moderated chats.
type GroupUseCase interface {
	// Register creates the Group and provisions its subscription in one
	// transaction. Re-registering an existing group is ErrAlreadyExists.
	Register(ctx context.Context, chatID int64, title string, now time.Time) (*model.Group, error)
	Get(ctx context.Context, chatID int64) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}

type groupUC struct {
	groups repository.GroupRepository
	subUC  SubscriptionUseCase
	tm     repository.TransactionManager
	log    *zerolog.Logger
}

func NewGroupUseCase(groups repository.GroupRepository, subUC SubscriptionUseCase, tm repository.TransactionManager, logger *zerolog.Logger) *groupUC {
	compLog := logger.With().Str("component", "GroupUC").Logger()
	return &groupUC{groups: groups, subUC: subUC, tm: tm, log: &compLog}
}

func (uc *groupUC) Register(ctx context.Context, chatID int64, title string, now time.Time) (*model.Group, error) {
	if existing, err := uc.groups.FindByID(ctx, repository.NoTX, chatID); err == nil && existing != nil {
		return existing, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	g, err := model.NewGroup(chatID, title, now)
	if err != nil {
		return nil, err
	}
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.groups.Save(ctx, tx, g); err != nil {
			return err
		}
		_, err := uc.subUC.Provision(ctx, tx, g.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("group_id", chatID).Str("title", title).Msg("group registered")
	return g, nil
}

func (uc *groupUC) Get(ctx context.Context, chatID int64) (*model.Group, error) {
	return uc.groups.FindByID(ctx, repository.NoTX, chatID)
}

func (uc *groupUC) List(ctx context.Context) ([]*model.Group, error) {
	return uc.groups.FindAll(ctx, repository.NoTX)
}
