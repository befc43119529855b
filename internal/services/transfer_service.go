package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/metrics"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/BasanLidzhiev/bank-rest/internal/worker"
)

// TransferService is the only path that mutates two card balances
// together. The debit, the credit and the transaction insert happen in
// one store transaction; a failure at any point rolls the whole unit
// back.
type TransferService struct {
	cards     repo.Cards
	users     repo.Users
	txns      repo.Transactions
	transfers repo.TransferStore
	wp        *worker.Pool
	notifier  Notifier
	log       *slog.Logger
}

func NewTransferService(cards repo.Cards, users repo.Users, txns repo.Transactions, transfers repo.TransferStore, wp *worker.Pool, n Notifier, log *slog.Logger) *TransferService {
	return &TransferService{cards: cards, users: users, txns: txns, transfers: transfers, wp: wp, notifier: n, log: log}
}

// Transfer moves amount minor units between two cards owned by the
// requesting user. Validation short-circuits in a fixed order so the
// caller always gets the most specific error: existence, ownership,
// self-transfer, status, expiry, funds.
func (s *TransferService) Transfer(ctx context.Context, fromIdent, toIdent string, amount int64, requester string) (models.Transaction, error) {
	txn, err := s.transfer(ctx, fromIdent, toIdent, amount, requester)
	if err != nil {
		metrics.TransfersFailed.WithLabelValues(failReason(err)).Inc()
		return models.Transaction{}, err
	}
	metrics.TransfersTotal.Inc()
	s.log.Info("transfer completed", "txn_id", txn.ID, "amount", txn.Amount)
	s.queueReceipt(requester, txn)
	return txn, nil
}

func (s *TransferService) transfer(ctx context.Context, fromIdent, toIdent string, amount int64, requester string) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, apperr.New(apperr.CodeInvalidAmount)
	}

	from, err := s.resolve(ctx, fromIdent)
	if err != nil {
		return models.Transaction{}, err
	}
	to, err := s.resolve(ctx, toIdent)
	if err != nil {
		return models.Transaction{}, err
	}

	if from.OwnerUsername != requester || to.OwnerUsername != requester {
		return models.Transaction{}, apperr.New(apperr.CodeNotOwner)
	}
	if from.ID == to.ID {
		return models.Transaction{}, apperr.New(apperr.CodeSameCardTransfer)
	}
	if err := checkTransferable(from, to); err != nil {
		return models.Transaction{}, err
	}
	if from.Balance < amount {
		return models.Transaction{}, apperr.New(apperr.CodeInsufficientFunds)
	}

	var txn models.Transaction
	err = s.transfers.WithinTx(ctx, func(ops repo.TxOps) error {
		// Lock both rows in ascending id order so two opposing
		// transfers on the same pair cannot deadlock.
		firstID, secondID := from.ID, to.ID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := ops.GetCardForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := ops.GetCardForUpdate(ctx, secondID)
		if err != nil {
			return err
		}
		lockedFrom, lockedTo := first, second
		if lockedFrom.ID != from.ID {
			lockedFrom, lockedTo = second, first
		}

		// Re-check on the locked rows: state may have moved between
		// resolution and lock acquisition.
		if err := checkTransferable(lockedFrom, lockedTo); err != nil {
			return err
		}
		if lockedFrom.Balance < amount {
			return apperr.New(apperr.CodeInsufficientFunds)
		}

		if err := ops.UpdateCardBalance(ctx, lockedFrom.ID, lockedFrom.Balance-amount); err != nil {
			return err
		}
		if err := ops.UpdateCardBalance(ctx, lockedTo.ID, lockedTo.Balance+amount); err != nil {
			return err
		}

		txn, err = ops.CreateTransaction(ctx, models.Transaction{
			FromCardID: lockedFrom.ID,
			ToCardID:   lockedTo.ID,
			Amount:     amount,
			Status:     models.TxnCompleted,
		})
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// resolve treats a 16-digit identifier as a card number and anything
// else as a card id.
func (s *TransferService) resolve(ctx context.Context, ident string) (models.Card, error) {
	if isCardNumber(ident) {
		return s.cards.GetByNumber(ctx, ident)
	}
	return s.cards.GetByID(ctx, ident)
}

func isCardNumber(ident string) bool {
	if len(ident) != 16 {
		return false
	}
	for _, r := range ident {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkTransferable enforces the status and expiry rules on both ends.
// Any non-ACTIVE status blocks the transfer; an ACTIVE card past its
// expiry date blocks it too (the expiry sweep may not have run yet).
func checkTransferable(from, to models.Card) error {
	if from.Status != models.CardActive || to.Status != models.CardActive {
		return apperr.New(apperr.CodeCardBlocked)
	}
	now := time.Now()
	if from.Expired(now) || to.Expired(now) {
		return apperr.New(apperr.CodeCardExpired)
	}
	return nil
}

func failReason(err error) string {
	if code := apperr.CodeOf(err); code != "" {
		return string(code)
	}
	return "internal"
}

func (s *TransferService) queueReceipt(username string, txn models.Transaction) {
	if s.notifier == nil || s.wp == nil {
		return
	}
	s.wp.Submit(func() {
		u, err := s.users.GetByUsername(context.Background(), username)
		if err != nil {
			s.log.Warn("transfer receipt lookup failed", "err", err)
			return
		}
		if err := s.notifier.TransferCompleted(u.Email, u.Username, txn); err != nil {
			s.log.Warn("transfer receipt send failed", "err", err)
		}
	})
}

// ListByOwner returns transactions touching any card owned by the user,
// newest first.
func (s *TransferService) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.Transaction, error) {
	return s.txns.ListByOwner(ctx, username, limit, offset)
}

// Get returns one transaction by id. Admin only (enforced at the
// boundary).
func (s *TransferService) Get(ctx context.Context, id string) (models.Transaction, error) {
	return s.txns.GetByID(ctx, id)
}
