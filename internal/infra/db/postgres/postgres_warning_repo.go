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

// Ensure warningRepo implements repository.WarningRepository
var _ repository.WarningRepository = (*warningRepo)(nil)

type warningRepo struct {
	pool *pgxpool.Pool
}

func NewWarningRepo(pool *pgxpool.Pool) *warningRepo {
	return &warningRepo{pool: pool}
}

func (r *warningRepo) Save(ctx context.Context, tx repository.Tx, w *model.Warning) error {
	const q = `
INSERT INTO warnings (group_id, user_id, username, count, last_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (group_id, user_id) DO UPDATE SET
  username=$3, count=$4, last_at=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, w.GroupID, w.UserID, w.Username, w.Count, w.LastAt, w.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *warningRepo) Find(ctx context.Context, tx repository.Tx, groupID, userID int64) (*model.Warning, error) {
	const q = `
SELECT group_id, user_id, username, count, last_at, created_at
  FROM warnings
 WHERE group_id=$1 AND user_id=$2;`
	row, err := queryRow(ctx, r.pool, tx, q, groupID, userID)
	if err != nil {
		return nil, err
	}
	return scanWarning(row)
}

func (r *warningRepo) FindByGroup(ctx context.Context, tx repository.Tx, groupID int64) ([]*model.Warning, error) {
	const q = `
SELECT group_id, user_id, username, count, last_at, created_at
  FROM warnings
 WHERE group_id=$1
 ORDER BY count DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Warning
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWarning(row pgx.Row) (*model.Warning, error) {
	var w model.Warning
	err := row.Scan(&w.GroupID, &w.UserID, &w.Username, &w.Count, &w.LastAt, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
