package handler

import (
	"context"
	"net/http"

	"pulse/internal/transaction"
)

type TransactionService interface {
	Create(ctx context.Context, authID string, in transaction.Input) (*transaction.Transaction, error)
	List(ctx context.Context) ([]transaction.Transaction, error)
	Get(ctx context.Context, id uint64) (*transaction.Transaction, error)
	Update(ctx context.Context, id uint64, in transaction.Input) (*transaction.Transaction, error)
	Remove(ctx context.Context, id uint64) error
}

type TransactionHandler struct {
	Svc TransactionService
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transaction.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.Create(r.Context(), caller(r), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Svc.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req transaction.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Remove(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "transaction deleted"})
}
