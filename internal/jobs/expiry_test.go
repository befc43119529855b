package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository/memory"
)

func TestExpirySweep(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	past, err := store.CreateCard(ctx, models.Card{
		Number: "1111222233334444", OwnerUsername: "alex",
		Status: models.CardActive, ExpireAt: time.Now().AddDate(0, 0, -1),
	})
	require.NoError(t, err)
	future, err := store.CreateCard(ctx, models.Card{
		Number: "5555666677778888", OwnerUsername: "alex",
		Status: models.CardActive, ExpireAt: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	sweeper := NewExpirySweeper(store.Cards(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	sweeper.Run(ctx)

	c, err := store.GetCardByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CardExpired, c.Status)

	c, err = store.GetCardByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CardActive, c.Status)

	// A second sweep is a no-op.
	sweeper.Run(ctx)
	c, err = store.GetCardByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CardExpired, c.Status)
}
