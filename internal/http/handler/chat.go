package handler

import (
	"context"
	"net/http"
	"strings"

	"pulse/internal/apperr"
	"pulse/internal/auth"
	"pulse/internal/chat"
)

type ChatService interface {
	Create(ctx context.Context, authID string, in chat.CreateInput) (*chat.Detail, error)
	Get(ctx context.Context, authID string, chatID uint64) (*chat.Detail, error)
	ListForUser(ctx context.Context, authID string) ([]chat.Summary, error)
	AddParticipants(ctx context.Context, authID string, chatID uint64, userIDs []uint64) (*chat.Detail, error)
	Rename(ctx context.Context, authID string, chatID uint64, name string) (*chat.Detail, error)
	RemoveParticipant(ctx context.Context, authID string, chatID, userID uint64) error
	Delete(ctx context.Context, authID string, chatID uint64) error
}

type ChatHandler struct {
	Svc ChatService
}

func caller(r *http.Request) string {
	authID, _ := auth.AuthIDFromContext(r.Context())
	return authID
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req chat.CreateInput
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	d, err := h.Svc.Create(r.Context(), caller(r), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, d)
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Svc.ListForUser(r.Context(), caller(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, chats)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	d, err := h.Svc.Get(r.Context(), caller(r), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

type renameChatReq struct {
	Name string `json:"name" validate:"required"`
}

func (h *ChatHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req renameChatReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondErr(w, apperr.BadRequest("name required"))
		return
	}

	d, err := h.Svc.Rename(r.Context(), caller(r), id, req.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), caller(r), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "chat deleted"})
}

type addParticipantsReq struct {
	UserIDs []uint64 `json:"userIds" validate:"required,min=1"`
}

func (h *ChatHandler) AddParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req addParticipantsReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	d, err := h.Svc.AddParticipants(r.Context(), caller(r), id, req.UserIDs)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *ChatHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.RemoveParticipant(r.Context(), caller(r), chatID, userID); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "participant removed"})
}
