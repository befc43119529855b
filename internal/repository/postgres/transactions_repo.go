package postgres

import (
	"context"
	"errors"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, from_card_id, to_card_id, amount, status, created_at
		   FROM transactions WHERE id=$1`, id,
	).Scan(&t.ID, &t.FromCardID, &t.ToCardID, &t.Amount, &t.Status, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, apperr.New(apperr.CodeTxnNotFound)
	}
	return t, err
}

func (r *transactionsRepo) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.from_card_id, t.to_card_id, t.amount, t.status, t.created_at
		   FROM transactions t
		  WHERE t.from_card_id IN (SELECT c.id FROM cards c JOIN users u ON u.id=c.user_id WHERE u.username=$1)
		     OR t.to_card_id   IN (SELECT c.id FROM cards c JOIN users u ON u.id=c.user_id WHERE u.username=$1)
		  ORDER BY t.created_at DESC
		  LIMIT $2 OFFSET $3`,
		username, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.FromCardID, &t.ToCardID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
