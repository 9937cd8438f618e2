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

// Ensure groupRepo implements repository.GroupRepository
var _ repository.GroupRepository = (*groupRepo)(nil)

type groupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) *groupRepo {
	return &groupRepo{pool: pool}
}

const groupColumns = `
id, title, is_locked, lock_until, night_lock_active, night_disabled_until,
last_night_applied, last_night_released, last_night_warned, created_at`

func (r *groupRepo) Save(ctx context.Context, tx repository.Tx, g *model.Group) error {
	const q = `
INSERT INTO groups (
  id, title, is_locked, lock_until, night_lock_active, night_disabled_until,
  last_night_applied, last_night_released, last_night_warned, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  title=$2, is_locked=$3, lock_until=$4, night_lock_active=$5,
  night_disabled_until=$6, last_night_applied=$7, last_night_released=$8,
  last_night_warned=$9;`

	_, err := execSQL(ctx, r.pool, tx, q,
		g.ID, g.Title, g.IsLocked, g.LockUntil, g.NightLockActive, g.NightDisabledUntil,
		g.LastNightApplied, g.LastNightReleased, g.LastNightWarned, g.CreatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *groupRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Group, error) {
	const q = `SELECT ` + groupColumns + ` FROM groups WHERE id=$1;`
	row, err := queryRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanGroup(row)
}

func (r *groupRepo) FindAll(ctx context.Context, tx repository.Tx) ([]*model.Group, error) {
	const q = `SELECT ` + groupColumns + ` FROM groups ORDER BY created_at;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *groupRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	const q = `DELETE FROM groups WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	err := row.Scan(
		&g.ID, &g.Title, &g.IsLocked, &g.LockUntil, &g.NightLockActive, &g.NightDisabledUntil,
		&g.LastNightApplied, &g.LastNightReleased, &g.LastNightWarned, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
