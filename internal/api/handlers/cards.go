package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/api/httpx"
	"github.com/BasanLidzhiev/bank-rest/internal/api/validate"
	"github.com/BasanLidzhiev/bank-rest/internal/middleware"
	"github.com/BasanLidzhiev/bank-rest/internal/models"
	"github.com/BasanLidzhiev/bank-rest/internal/services"
	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	cards *services.CardService
}

func NewCardHandler(cards *services.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

type createCardReq struct {
	OwnerUsername string `json:"owner_username"`
	ExpireAt      string `json:"expire_at"` // YYYY-MM-DD
	Balance       int64  `json:"balance"`
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if err := validate.Collect(
		validate.Required("owner_username", req.OwnerUsername),
		validate.Required("expire_at", req.ExpireAt),
		validate.MinInt("balance", req.Balance, 0),
	); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	expireAt, err := time.Parse(time.DateOnly, req.ExpireAt)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "expire_at: must be YYYY-MM-DD")
		return
	}

	view, err := h.cards.Create(r.Context(), req.OwnerUsername, expireAt, req.Balance)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, view)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	view, err := h.cards.Get(r.Context(), chi.URLParam(r, "id"), p.Username, p.Role == models.RoleAdmin)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *CardHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	limit, offset := pagination(r)
	list, err := h.cards.ListByOwner(r.Context(), p.Username, limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *CardHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.cards.ListAll(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *CardHandler) RequestBlock(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	view, err := h.cards.RequestBlock(r.Context(), chi.URLParam(r, "id"), p.Username)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *CardHandler) Block(w http.ResponseWriter, r *http.Request) {
	view, err := h.cards.AdminBlock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h *CardHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	view, err := h.cards.AdminSetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteAppErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
