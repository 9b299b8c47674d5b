package handler

import (
	"context"
	"net/http"

	"pulse/internal/notification"
)

type NotificationService interface {
	ListForUser(ctx context.Context, authID string) ([]notification.Notification, error)
	MarkRead(ctx context.Context, notificationID uint64) (*notification.Notification, error)
}

type NotificationHandler struct {
	Svc NotificationService
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListForUser(r.Context(), caller(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	n, err := h.Svc.MarkRead(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, n)
}
