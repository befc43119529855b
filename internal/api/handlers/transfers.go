package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BasanLidzhiev/bank-rest/internal/api/httpx"
	"github.com/BasanLidzhiev/bank-rest/internal/api/validate"
	"github.com/BasanLidzhiev/bank-rest/internal/middleware"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
)

type TransferHandler struct {
	transfers *services.TransferService
}

func NewTransferHandler(transfers *services.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type transferReq struct {
	FromCard string `json:"from_card"`
	ToCard   string `json:"to_card"`
	Amount   int64  `json:"amount"` // minor units
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if err := validate.Collect(
		validate.Required("from_card", req.FromCard),
		validate.Required("to_card", req.ToCard),
		validate.MinInt("amount", req.Amount, 1),
	); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	p, _ := middleware.PrincipalFrom(r.Context())
	txn, err := h.transfers.Transfer(r.Context(), req.FromCard, req.ToCard, req.Amount, p.Username)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, txn)
}

func (h *TransferHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	limit, offset := pagination(r)
	list, err := h.transfers.ListByOwner(r.Context(), p.Username, limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.transfers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txn)
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
