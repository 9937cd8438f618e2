package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.GroupSubscription) error {
	const q = `
INSERT INTO group_subscriptions (group_id, start_date, end_date, warned)
VALUES ($1,$2,$3,$4)
ON CONFLICT (group_id) DO UPDATE SET
  start_date=$2, end_date=$3, warned=$4;`

	_, err := execSQL(ctx, r.pool, tx, q, s.GroupID, s.StartDate, s.EndDate, s.Warned)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByGroup(ctx context.Context, tx repository.Tx, groupID int64) (*model.GroupSubscription, error) {
	const q = `
SELECT group_id, start_date, end_date, warned
  FROM group_subscriptions
 WHERE group_id=$1;`
	row, err := queryRow(ctx, r.pool, tx, q, groupID)
	if err != nil {
		return nil, err
	}

	var s model.GroupSubscription
	err = row.Scan(&s.GroupID, &s.StartDate, &s.EndDate, &s.Warned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
