package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasanLidzhiev/bank-rest/internal/middleware"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/repository/memory"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
)

func newTransferHandler(t *testing.T) (*memory.Store, *TransferHandler) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	alex, err := store.Create(ctx, models.User{Username: "alex", Email: "alex@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	expiry := time.Now().AddDate(3, 0, 0)
	_, err = store.CreateCard(ctx, models.Card{
		ID: "card-a", Number: "1111222233334444",
		OwnerID: alex.ID, OwnerUsername: "alex",
		Balance: 1000, Status: models.CardActive, ExpireAt: expiry,
	})
	require.NoError(t, err)
	_, err = store.CreateCard(ctx, models.Card{
		ID: "card-b", Number: "5555666677778888",
		OwnerID: alex.ID, OwnerUsername: "alex",
		Balance: 0, Status: models.CardActive, ExpireAt: expiry,
	})
	require.NoError(t, err)

	svc := services.NewTransferService(store.Cards(), store.Users(), store.Transactions(), store, nil, nil, log)
	return store, NewTransferHandler(svc)
}

func doTransfer(h *TransferHandler, username, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{Username: username, Role: models.RoleUser}))
	rec := httptest.NewRecorder()
	h.Transfer(rec, req)
	return rec
}

func TestTransferEndpoint(t *testing.T) {
	store, h := newTransferHandler(t)

	rec := doTransfer(h, "alex", `{"from_card":"card-a","to_card":"card-b","amount":300}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var txn models.Transaction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&txn))
	assert.Equal(t, "card-a", txn.FromCardID)
	assert.Equal(t, "card-b", txn.ToCardID)
	assert.Equal(t, int64(300), txn.Amount)
	assert.Equal(t, models.TxnCompleted, txn.Status)

	a, err := store.GetCardByID(context.Background(), "card-a")
	require.NoError(t, err)
	assert.Equal(t, int64(700), a.Balance)
}

func TestTransferEndpointValidation(t *testing.T) {
	_, h := newTransferHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing from", `{"to_card":"card-b","amount":100}`, http.StatusBadRequest},
		{"zero amount", `{"from_card":"card-a","to_card":"card-b","amount":0}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doTransfer(h, "alex", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTransferEndpointErrorMapping(t *testing.T) {
	_, h := newTransferHandler(t)

	tests := []struct {
		name     string
		username string
		body     string
		want     int
		code     string
	}{
		{"not owner", "bob", `{"from_card":"card-a","to_card":"card-b","amount":100}`, http.StatusForbidden, "not_owner"},
		{"same card", "alex", `{"from_card":"card-a","to_card":"card-a","amount":100}`, http.StatusConflict, "same_card_transfer"},
		{"insufficient funds", "alex", `{"from_card":"card-a","to_card":"card-b","amount":5000}`, http.StatusBadRequest, "insufficient_funds"},
		{"unknown card", "alex", `{"from_card":"card-x","to_card":"card-b","amount":100}`, http.StatusNotFound, "card_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doTransfer(h, tt.username, tt.body)
			require.Equal(t, tt.want, rec.Code)

			var apiErr struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestTransactionsEndpoint(t *testing.T) {
	_, h := newTransferHandler(t)

	rec := doTransfer(h, "alex", `{"from_card":"card-a","to_card":"card-b","amount":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{Username: "alex", Role: models.RoleUser}))
	out := httptest.NewRecorder()
	h.ListOwn(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var list []models.Transaction
	require.NoError(t, json.NewDecoder(out.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(100), list[0].Amount)
}
