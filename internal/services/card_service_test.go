package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository/memory"
)

type cardFixture struct {
	store *memory.Store
	svc   *CardService
	alex  models.User
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	alex, err := store.Create(ctx, models.User{Username: "alex", Email: "alex@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	svc := NewCardService(store.Cards(), store.Users(), nil, nil, testLogger())
	return &cardFixture{store: store, svc: svc, alex: alex}
}

func TestCardCreate(t *testing.T) {
	f := newCardFixture(t)
	expiry := time.Now().AddDate(3, 0, 0)

	view, err := f.svc.Create(context.Background(), "alex", expiry, 5000)
	require.NoError(t, err)

	assert.Equal(t, models.CardActive, view.Status)
	assert.Equal(t, int64(5000), view.Balance)
	assert.Equal(t, "alex", view.OwnerUsername)
	assert.True(t, strings.HasPrefix(view.MaskedNumber, "**** **** **** "))
	assert.Len(t, view.MaskedNumber, 19)

	// The stored card carries a full 16-digit number.
	card, err := f.store.GetCardByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Len(t, card.Number, 16)
}

func TestCardCreateNegativeBalance(t *testing.T) {
	f := newCardFixture(t)

	_, err := f.svc.Create(context.Background(), "alex", time.Now().AddDate(1, 0, 0), -1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidAmount, apperr.CodeOf(err))
}

func TestCardCreateZeroBalanceAllowed(t *testing.T) {
	f := newCardFixture(t)

	view, err := f.svc.Create(context.Background(), "alex", time.Now().AddDate(1, 0, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.Balance)
}

func TestCardCreatePastExpiry(t *testing.T) {
	f := newCardFixture(t)

	_, err := f.svc.Create(context.Background(), "alex", time.Now().AddDate(0, 0, -1), 100)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCardExpired, apperr.CodeOf(err))
}

func TestCardCreateUnknownOwner(t *testing.T) {
	f := newCardFixture(t)

	_, err := f.svc.Create(context.Background(), "nobody", time.Now().AddDate(1, 0, 0), 100)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}

func TestCardRequestBlock(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	_, err = f.svc.RequestBlock(ctx, view.ID, "bob")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotOwner, apperr.CodeOf(err))

	updated, err := f.svc.RequestBlock(ctx, view.ID, "alex")
	require.NoError(t, err)
	assert.Equal(t, models.CardRequestBlocked, updated.Status)
}

func TestCardAdminBlock(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	updated, err := f.svc.AdminBlock(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CardBlocked, updated.Status)

	_, err = f.svc.AdminBlock(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCardNotFound, apperr.CodeOf(err))
}

func TestCardAdminSetStatus(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	_, err = f.svc.AdminSetStatus(ctx, view.ID, "FROZEN")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidStatus, apperr.CodeOf(err))

	// Lowercase input maps onto the known status set.
	updated, err := f.svc.AdminSetStatus(ctx, view.ID, "blocked")
	require.NoError(t, err)
	assert.Equal(t, models.CardBlocked, updated.Status)

	updated, err = f.svc.AdminSetStatus(ctx, view.ID, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, models.CardActive, updated.Status)
}

func TestCardDelete(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, view.ID))

	err = f.svc.Delete(ctx, view.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCardNotFound, apperr.CodeOf(err))
}

func TestCardGetOwnership(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, view.ID, "bob", false)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotOwner, apperr.CodeOf(err))

	got, err := f.svc.Get(ctx, view.ID, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)

	got, err = f.svc.Get(ctx, view.ID, "alex", false)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)
}

func TestCardList(t *testing.T) {
	f := newCardFixture(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, "alex", time.Now().AddDate(1, 0, 0), 100)
		require.NoError(t, err)
	}
	_, err = f.svc.Create(ctx, "bob", time.Now().AddDate(1, 0, 0), 100)
	require.NoError(t, err)

	own, err := f.svc.ListByOwner(ctx, "alex", 50, 0)
	require.NoError(t, err)
	assert.Len(t, own, 3)

	all, err := f.svc.ListAll(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	page, err := f.svc.ListByOwner(ctx, "alex", 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
