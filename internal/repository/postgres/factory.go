package postgres

import (
	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users        repo.Users
	Cards        repo.Cards
	Transactions repo.Transactions
	Transfers    repo.TransferStore
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        &usersRepo{pool},
		Cards:        &cardsRepo{pool},
		Transactions: &transactionsRepo{pool},
		Transfers:    &transferStore{pool},
	}
}
