package memory

import (
	"context"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository"
)

// Users, Cards and Transactions expose the shared Store through the
// per-entity interfaces (the method names overlap, so the card and
// transaction views are thin adapters).

func (s *Store) Users() repository.Users { return s }

func (s *Store) Cards() repository.Cards { return cardsView{s} }

func (s *Store) Transactions() repository.Transactions { return txnsView{s} }

type cardsView struct{ s *Store }

func (v cardsView) Create(ctx context.Context, c models.Card) (models.Card, error) {
	return v.s.CreateCard(ctx, c)
}

func (v cardsView) GetByID(ctx context.Context, id string) (models.Card, error) {
	return v.s.GetCardByID(ctx, id)
}

func (v cardsView) GetByNumber(ctx context.Context, number string) (models.Card, error) {
	return v.s.GetCardByNumber(ctx, number)
}

func (v cardsView) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Card, error) {
	return v.s.ListCardsByOwner(ctx, username, limit, offset)
}

func (v cardsView) ListAll(ctx context.Context, limit, offset int) ([]models.Card, error) {
	return v.s.ListAllCards(ctx, limit, offset)
}

func (v cardsView) UpdateStatus(ctx context.Context, id string, status models.CardStatus) (models.Card, error) {
	return v.s.UpdateCardStatus(ctx, id, status)
}

func (v cardsView) Delete(ctx context.Context, id string) error {
	return v.s.DeleteCard(ctx, id)
}

func (v cardsView) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	return v.s.MarkExpired(ctx, asOf)
}

type txnsView struct{ s *Store }

func (v txnsView) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	return v.s.GetTransactionByID(ctx, id)
}

func (v txnsView) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Transaction, error) {
	return v.s.ListTransactionsByOwner(ctx, username, limit, offset)
}
