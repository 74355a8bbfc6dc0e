// Package favorite stores which menu items a user has starred.
package favorite

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAlreadyExists = errors.New("already in favorites")

type Repository interface {
	Add(ctx context.Context, userID, menuItemID int64) error
	Remove(ctx context.Context, userID, menuItemID int64) (bool, error)
	ListItemIDs(ctx context.Context, userID int64) ([]int64, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Add(ctx context.Context, userID, menuItemID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, menu_item_id, created_at)
		VALUES ($1,$2,NOW())
		ON CONFLICT (user_id, menu_item_id) DO NOTHING
	`, userID, menuItemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *PGRepo) Remove(ctx context.Context, userID, menuItemID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id=$1 AND menu_item_id=$2`, userID, menuItemID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) ListItemIDs(ctx context.Context, userID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT menu_item_id FROM favorites WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
