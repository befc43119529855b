package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/cards"
	"github.com/BasanLidzhiev/bank-rest/internal/metrics"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/BasanLidzhiev/bank-rest/internal/worker"
)

// numberAttempts bounds regeneration on card-number collision.
const numberAttempts = 5

// CardService is the card lifecycle manager: issuance, block/unblock,
// status changes, deletion and read projections. All outward
// projections are CardViews with a masked number.
type CardService struct {
	cards    repo.Cards
	users    repo.Users
	wp       *worker.Pool
	notifier Notifier
	log      *slog.Logger
}

func NewCardService(c repo.Cards, u repo.Users, wp *worker.Pool, n Notifier, log *slog.Logger) *CardService {
	return &CardService{cards: c, users: u, wp: wp, notifier: n, log: log}
}

// Create issues a fresh ACTIVE card for the given owner. Admin only
// (enforced at the boundary).
func (s *CardService) Create(ctx context.Context, ownerUsername string, expireAt time.Time, initialBalance int64) (models.CardView, error) {
	if initialBalance < 0 {
		return models.CardView{}, apperr.New(apperr.CodeInvalidAmount)
	}
	probe := models.Card{ExpireAt: expireAt}
	if probe.Expired(time.Now()) {
		return models.CardView{}, apperr.New(apperr.CodeCardExpired)
	}

	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return models.CardView{}, err
	}

	for i := 0; i < numberAttempts; i++ {
		number, err := cards.GenerateNumber()
		if err != nil {
			return models.CardView{}, err
		}
		card, err := s.cards.Create(ctx, models.Card{
			Number:        number,
			OwnerID:       owner.ID,
			OwnerUsername: owner.Username,
			Balance:       initialBalance,
			Status:        models.CardActive,
			ExpireAt:      expireAt,
		})
		if errors.Is(err, repo.ErrNumberTaken) {
			continue
		}
		if err != nil {
			return models.CardView{}, err
		}
		metrics.CardsIssued.Inc()
		s.log.Info("card issued", "card_id", card.ID, "owner", owner.Username)
		return card.View(), nil
	}
	return models.CardView{}, errors.New("could not generate a unique card number")
}

// Get returns one card. Non-admin callers may only see their own.
func (s *CardService) Get(ctx context.Context, cardID, requester string, admin bool) (models.CardView, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return models.CardView{}, err
	}
	if !admin && card.OwnerUsername != requester {
		return models.CardView{}, apperr.New(apperr.CodeNotOwner)
	}
	return card.View(), nil
}

// RequestBlock flags the caller's own card for admin review; it does
// not block the card itself.
func (s *CardService) RequestBlock(ctx context.Context, cardID, requester string) (models.CardView, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return models.CardView{}, err
	}
	if card.OwnerUsername != requester {
		return models.CardView{}, apperr.New(apperr.CodeNotOwner)
	}
	updated, err := s.cards.UpdateStatus(ctx, cardID, models.CardRequestBlocked)
	if err != nil {
		return models.CardView{}, err
	}
	s.log.Info("card block requested", "card_id", cardID, "owner", requester)
	s.queueBlockRequestNotice(requester, updated)
	return updated.View(), nil
}

// AdminBlock blocks a card unconditionally and notifies its owner.
func (s *CardService) AdminBlock(ctx context.Context, cardID string) (models.CardView, error) {
	updated, err := s.cards.UpdateStatus(ctx, cardID, models.CardBlocked)
	if err != nil {
		return models.CardView{}, err
	}
	metrics.CardsBlocked.Inc()
	s.queueBlockNotice(updated)
	return updated.View(), nil
}

// AdminSetStatus sets an arbitrary known status on a card.
func (s *CardService) AdminSetStatus(ctx context.Context, cardID, status string) (models.CardView, error) {
	st, ok := models.ParseCardStatus(status)
	if !ok {
		return models.CardView{}, apperr.New(apperr.CodeInvalidStatus)
	}
	updated, err := s.cards.UpdateStatus(ctx, cardID, st)
	if err != nil {
		return models.CardView{}, err
	}
	return updated.View(), nil
}

// Delete removes a card permanently. No mutation is possible afterward;
// its transactions remain in the log.
func (s *CardService) Delete(ctx context.Context, cardID string) error {
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return err
	}
	s.log.Info("card deleted", "card_id", cardID)
	return nil
}

func (s *CardService) ListByOwner(ctx context.Context, username string, limit, offset int) ([]models.CardView, error) {
	list, err := s.cards.ListByOwner(ctx, username, limit, offset)
	if err != nil {
		return nil, err
	}
	return views(list), nil
}

func (s *CardService) ListAll(ctx context.Context, limit, offset int) ([]models.CardView, error) {
	list, err := s.cards.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return views(list), nil
}

func views(list []models.Card) []models.CardView {
	out := make([]models.CardView, 0, len(list))
	for _, c := range list {
		out = append(out, c.View())
	}
	return out
}

func (s *CardService) queueBlockRequestNotice(requester string, card models.Card) {
	if s.notifier == nil || s.wp == nil {
		return
	}
	view := card.View()
	s.wp.Submit(func() {
		if err := s.notifier.BlockRequested(requester, view); err != nil {
			s.log.Warn("block request notice send failed", "err", err)
		}
	})
}

func (s *CardService) queueBlockNotice(card models.Card) {
	if s.notifier == nil || s.wp == nil {
		return
	}
	view := card.View()
	s.wp.Submit(func() {
		u, err := s.users.GetByUsername(context.Background(), view.OwnerUsername)
		if err != nil {
			s.log.Warn("block notice lookup failed", "err", err)
			return
		}
		if err := s.notifier.CardBlocked(u.Email, u.Username, view); err != nil {
			s.log.Warn("block notice send failed", "err", err)
		}
	})
}
