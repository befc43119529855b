package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cardsRepo struct{ pool *pgxpool.Pool }

// Owner username is fetched with an explicit JOIN on every card read;
// there is no lazy loading anywhere in the store.
const cardColumns = `c.id, c.number, c.user_id, u.username, c.balance, c.status, c.expire_at, c.created_at, c.updated_at`
const cardFrom = ` FROM cards c JOIN users u ON u.id = c.user_id `

func scanCard(row pgx.Row) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.Number, &c.OwnerID, &c.OwnerUsername, &c.Balance, &c.Status, &c.ExpireAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	if err != nil {
		return models.Card{}, err
	}
	c.Number = strings.TrimSpace(c.Number)
	return c, nil
}

func (r *cardsRepo) Create(ctx context.Context, c models.Card) (models.Card, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cards(id, number, user_id, balance, status, expire_at) VALUES($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Number, c.OwnerID, c.Balance, c.Status, c.ExpireAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.Card{}, repository.ErrNumberTaken
	}
	if err != nil {
		return models.Card{}, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *cardsRepo) GetByID(ctx context.Context, id string) (models.Card, error) {
	return scanCard(r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+cardFrom+`WHERE c.id=$1`, id))
}

func (r *cardsRepo) GetByNumber(ctx context.Context, number string) (models.Card, error) {
	return scanCard(r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+cardFrom+`WHERE c.number=$1`, number))
}

func (r *cardsRepo) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+cardFrom+`WHERE u.username=$1 ORDER BY c.created_at DESC LIMIT $2 OFFSET $3`,
		username, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectCards(rows)
}

func (r *cardsRepo) ListAll(ctx context.Context, limit, offset int) ([]models.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+cardFrom+`ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectCards(rows)
}

func collectCards(rows pgx.Rows) ([]models.Card, error) {
	defer rows.Close()
	var out []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *cardsRepo) UpdateStatus(ctx context.Context, id string, status models.CardStatus) (models.Card, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return models.Card{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *cardsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.CodeCardNotFound)
	}
	return nil
}

func (r *cardsRepo) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET status=$2, updated_at=now() WHERE expire_at < $1 AND status <> $2`,
		asOf, models.CardExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
