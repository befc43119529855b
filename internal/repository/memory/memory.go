// Package memory provides a map-backed implementation of the store
// interfaces. It backs the service tests and mirrors the transactional
// behavior of the postgres store: a unit of work either commits fully
// or leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu    sync.Mutex
	users map[string]models.User
	cards map[string]models.Card
	txns  []models.Transaction

	// Fault-injection hooks for rollback tests.
	FailCreateTransaction error
	FailBalanceUpdateFor  map[string]error
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]models.User),
		cards: make(map[string]models.Card),
	}
}

// ---------------- Users ----------------

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Username == u.Username || e.Email == u.Email {
			return models.User{}, apperr.New(apperr.CodeUserAlreadyExists)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.New(apperr.CodeUserNotFound)
	}
	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, apperr.New(apperr.CodeUserNotFound)
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) Update(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[u.ID]
	if !ok {
		return apperr.New(apperr.CodeUserNotFound)
	}
	e.Username = u.Username
	e.Email = u.Email
	e.Role = u.Role
	e.UpdatedAt = time.Now()
	s.users[u.ID] = e
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.New(apperr.CodeUserNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ---------------- Cards ----------------

func (s *Store) CreateCard(ctx context.Context, c models.Card) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cards {
		if e.Number == c.Number {
			return models.Card{}, repository.ErrNumberTaken
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.cards[c.ID] = c
	return c, nil
}

func (s *Store) GetCardByID(ctx context.Context, id string) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	return c, nil
}

func (s *Store) GetCardByNumber(ctx context.Context, number string) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.Number == number {
			return c, nil
		}
	}
	return models.Card{}, apperr.New(apperr.CodeCardNotFound)
}

func (s *Store) ListCardsByOwner(ctx context.Context, username string, limit, offset int) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Card
	for _, c := range s.cards {
		if c.OwnerUsername == username {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (s *Store) ListAllCards(ctx context.Context, limit, offset int) ([]models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (s *Store) UpdateCardStatus(ctx context.Context, id string, status models.CardStatus) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	s.cards[id] = c
	return c, nil
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return apperr.New(apperr.CodeCardNotFound)
	}
	delete(s.cards, id)
	return nil
}

func (s *Store) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.cards {
		if c.ExpireAt.Before(asOf) && c.Status != models.CardExpired {
			c.Status = models.CardExpired
			s.cards[id] = c
			n++
		}
	}
	return n, nil
}

// ---------------- Transactions ----------------

func (s *Store) GetTransactionByID(ctx context.Context, id string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, apperr.New(apperr.CodeTxnNotFound)
}

func (s *Store) ListTransactionsByOwner(ctx context.Context, username string, limit, offset int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make(map[string]bool)
	for _, c := range s.cards {
		if c.OwnerUsername == username {
			owned[c.ID] = true
		}
	}
	var out []models.Transaction
	for i := len(s.txns) - 1; i >= 0; i-- {
		t := s.txns[i]
		if owned[t.FromCardID] || owned[t.ToCardID] {
			out = append(out, t)
		}
	}
	return paginate(out, limit, offset), nil
}

// TransactionCount reports the size of the append-only log.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txns)
}

// ---------------- TransferStore ----------------

// WithinTx serializes units of work under the store mutex and applies
// fn to a snapshot; the snapshot replaces live state only if fn
// succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ops repository.TxOps) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &txOps{
		store: s,
		cards: make(map[string]models.Card, len(s.cards)),
	}
	for id, c := range s.cards {
		snap.cards[id] = c
	}

	if err := fn(snap); err != nil {
		return err
	}

	s.cards = snap.cards
	s.txns = append(s.txns, snap.txns...)
	return nil
}

type txOps struct {
	store *Store
	cards map[string]models.Card
	txns  []models.Transaction
}

func (o *txOps) GetCardForUpdate(ctx context.Context, id string) (models.Card, error) {
	c, ok := o.cards[id]
	if !ok {
		return models.Card{}, apperr.New(apperr.CodeCardNotFound)
	}
	return c, nil
}

func (o *txOps) UpdateCardBalance(ctx context.Context, id string, balance int64) error {
	if err := o.store.FailBalanceUpdateFor[id]; err != nil {
		return err
	}
	c, ok := o.cards[id]
	if !ok {
		return apperr.New(apperr.CodeCardNotFound)
	}
	c.Balance = balance
	c.UpdatedAt = time.Now()
	o.cards[id] = c
	return nil
}

func (o *txOps) CreateTransaction(ctx context.Context, txn models.Transaction) (models.Transaction, error) {
	if err := o.store.FailCreateTransaction; err != nil {
		return models.Transaction{}, err
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	txn.CreatedAt = time.Now()
	o.txns = append(o.txns, txn)
	return txn, nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
