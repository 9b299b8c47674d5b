package handler

import (
	"context"
	"net/http"

	"pulse/internal/comment"
)

type CommentService interface {
	Create(ctx context.Context, authID string, postID uint64, in comment.CreateInput) (*comment.Comment, error)
	Update(ctx context.Context, commentID uint64, content string) (*comment.Comment, error)
	Delete(ctx context.Context, commentID uint64) error
	Get(ctx context.Context, commentID uint64) (*comment.View, error)
	ListByPost(ctx context.Context, postID uint64) ([]comment.View, error)
	ListReplies(ctx context.Context, parentID uint64) ([]comment.View, error)
}

type CommentHandler struct {
	Svc CommentService
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req comment.CreateInput
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	c, err := h.Svc.Create(r.Context(), caller(r), postID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		respondErr(w, err)
		return
	}
	comments, err := h.Svc.ListByPost(r.Context(), postID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, comments)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		respondErr(w, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

type updateCommentReq struct {
	Content string `json:"content" validate:"required"`
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req updateCommentReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	c, err := h.Svc.Update(r.Context(), id, req.Content)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "comment deleted"})
}

func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "commentId")
	if err != nil {
		respondErr(w, err)
		return
	}
	replies, err := h.Svc.ListReplies(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, replies)
}
