// Package jobs holds the cron-scheduled maintenance tasks.
package jobs

import (
	"context"
	"log/slog"
	"time"

	repo "github.com/BasanLidzhiev/bank-rest/internal/repository"
	"github.com/robfig/cron/v3"
)

// ExpirySweeper flips cards whose expiry date has passed to EXPIRED.
// Transfers reject date-expired cards regardless, so the sweep only
// keeps stored statuses honest for reads.
type ExpirySweeper struct {
	cards repo.Cards
	log   *slog.Logger
}

func NewExpirySweeper(cards repo.Cards, log *slog.Logger) *ExpirySweeper {
	return &ExpirySweeper{cards: cards, log: log}
}

func (s *ExpirySweeper) Run(ctx context.Context) {
	n, err := s.cards.MarkExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("expiry sweep failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("expiry sweep done", "cards_expired", n)
	}
}

// Schedule registers the sweep on a daily cron and runs it once
// immediately so a restart does not delay enforcement.
func Schedule(ctx context.Context, c *cron.Cron, s *ExpirySweeper) error {
	s.Run(ctx)
	_, err := c.AddFunc("@daily", func() { s.Run(ctx) })
	return err
}
