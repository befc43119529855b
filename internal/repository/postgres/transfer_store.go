package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transferStore struct{ pool *pgxpool.Pool }

// WithinTx runs fn inside one pgx transaction. Everything done through
// the TxOps handle commits or rolls back as a unit.
func (s *transferStore) WithinTx(ctx context.Context, fn func(ops repository.TxOps) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return err
	}
	if err := fn(&txOps{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txOps struct{ tx pgx.Tx }

// GetCardForUpdate locks the card row exclusively for the duration of
// the transaction. Callers lock cards in ascending id order.
func (o *txOps) GetCardForUpdate(ctx context.Context, id string) (models.Card, error) {
	var c models.Card
	err := o.tx.QueryRow(ctx,
		`SELECT c.id, c.number, c.user_id, u.username, c.balance, c.status, c.expire_at, c.created_at, c.updated_at
		   FROM cards c JOIN users u ON u.id = c.user_id
		  WHERE c.id=$1
		  FOR UPDATE OF c`, id,
	).Scan(&c.ID, &c.Number, &c.OwnerID, &c.OwnerUsername, &c.Balance, &c.Status, &c.ExpireAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	if err != nil {
		return models.Card{}, err
	}
	c.Number = strings.TrimSpace(c.Number)
	return c, nil
}

func (o *txOps) UpdateCardBalance(ctx context.Context, id string, balance int64) error {
	tag, err := o.tx.Exec(ctx,
		`UPDATE cards SET balance=$2, updated_at=now() WHERE id=$1`, id, balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.CodeCardNotFound)
	}
	return nil
}

func (o *txOps) CreateTransaction(ctx context.Context, txn models.Transaction) (models.Transaction, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	err := o.tx.QueryRow(ctx,
		`INSERT INTO transactions(id, from_card_id, to_card_id, amount, status)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		txn.ID, txn.FromCardID, txn.ToCardID, txn.Amount, txn.Status,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}
