package repository

import (
	"context"
	"errors"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/models"
)

// ErrNumberTaken is returned by Cards.Create when the generated card
// number collides with an existing one; callers regenerate and retry.
var ErrNumberTaken = errors.New("card number already taken")

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type Cards interface {
	Create(ctx context.Context, c models.Card) (models.Card, error)
	GetByID(ctx context.Context, id string) (models.Card, error)
	GetByNumber(ctx context.Context, number string) (models.Card, error)
	ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Card, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Card, error)
	UpdateStatus(ctx context.Context, id string, status models.CardStatus) (models.Card, error)
	Delete(ctx context.Context, id string) error
	// MarkExpired flips every card whose expiry date lies before asOf to
	// EXPIRED and returns the number of affected rows.
	MarkExpired(ctx context.Context, asOf time.Time) (int64, error)
}

type Transactions interface {
	GetByID(ctx context.Context, id string) (models.Transaction, error)
	ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Transaction, error)
}

// TxOps is the set of store operations available inside one atomic unit
// of work. GetCardForUpdate takes an exclusive row lock held until the
// unit commits or rolls back.
type TxOps interface {
	GetCardForUpdate(ctx context.Context, id string) (models.Card, error)
	UpdateCardBalance(ctx context.Context, id string, balance int64) error
	CreateTransaction(ctx context.Context, txn models.Transaction) (models.Transaction, error)
}

// TransferStore runs fn inside a single database transaction. If fn
// returns an error every operation performed through its TxOps is
// rolled back.
type TransferStore interface {
	WithinTx(ctx context.Context, fn func(ops TxOps) error) error
}
