package handler

import (
	"context"
	"net/http"

	"pulse/internal/habit"
)

type HabitService interface {
	Create(ctx context.Context, authID string, in habit.Input) (*habit.Habit, error)
	ListForUser(ctx context.Context, authID string) ([]habit.Habit, error)
	Get(ctx context.Context, habitID uint64) (*habit.Habit, error)
	Update(ctx context.Context, habitID uint64, in habit.Input) (*habit.Habit, error)
	UpdateStatus(ctx context.Context, habitID uint64, status string) (*habit.Habit, error)
	RecordCompletion(ctx context.Context, habitID uint64, completed bool, notes string) (*habit.Completion, error)
	Reset(ctx context.Context, habitID uint64) (*habit.Habit, error)
	Remove(ctx context.Context, habitID uint64) error
}

type HabitHandler struct {
	Svc HabitService
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req habit.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	hb, err := h.Svc.Create(r.Context(), caller(r), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, hb)
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.Svc.ListForUser(r.Context(), caller(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	hb, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, hb)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req habit.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	hb, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, hb)
}

type habitStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *HabitHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req habitStatusReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	hb, err := h.Svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, hb)
}

type completionReq struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

func (h *HabitHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req completionReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	c, err := h.Svc.RecordCompletion(r.Context(), id, req.Completed, req.Notes)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *HabitHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	hb, err := h.Svc.Reset(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, hb)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Remove(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "habit deleted"})
}
