package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pulse/internal/apperr"
	"pulse/internal/reaction"
)

type ReactionService interface {
	React(ctx context.Context, authID string, target reaction.Target, reactionType string) (*reaction.Result, error)
	Remove(ctx context.Context, reactionID uint64) error
	PostCounts(ctx context.Context, postID uint64) (*reaction.PostCountDetails, error)
	MessageReactions(ctx context.Context, messageID uint64) (*reaction.MessageBreakdown, error)
	MessageCounts(ctx context.Context, messageIDs []uint64) (map[uint64]int64, error)
}

type ReactionHandler struct {
	Svc ReactionService
}

type reactReq struct {
	Type string `json:"type" validate:"required"`
}

func (h *ReactionHandler) react(w http.ResponseWriter, r *http.Request, kind reaction.TargetKind, param string) {
	id, err := pathID(r, param)
	if err != nil {
		respondErr(w, err)
		return
	}
	var req reactReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.Svc.React(r.Context(), caller(r), reaction.Target{Kind: kind, ID: id}, req.Type)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *ReactionHandler) ReactToPost(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, reaction.TargetPost, "postId")
}

func (h *ReactionHandler) ReactToComment(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, reaction.TargetComment, "commentId")
}

func (h *ReactionHandler) ReactToMessage(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, reaction.TargetMessage, "messageId")
}

func (h *ReactionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reactionId")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Remove(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "reaction removed"})
}

func (h *ReactionHandler) PostCounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postId")
	if err != nil {
		respondErr(w, err)
		return
	}
	counts, err := h.Svc.PostCounts(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, counts)
}

func (h *ReactionHandler) MessageReactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "messageId")
	if err != nil {
		respondErr(w, err)
		return
	}
	breakdown, err := h.Svc.MessageReactions(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, breakdown)
}

// MessageCounts answers ?ids=1,2,3 with a per-message reaction total.
func (h *ReactionHandler) MessageCounts(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		respondErr(w, apperr.BadRequest("ids query param required"))
		return
	}
	var ids []uint64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			respondErr(w, apperr.BadRequest("invalid message id: "+part))
			return
		}
		ids = append(ids, id)
	}

	counts, err := h.Svc.MessageCounts(r.Context(), ids)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, counts)
}
