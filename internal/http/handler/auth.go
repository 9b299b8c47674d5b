package handler

import (
	"context"
	"net/http"

	"pulse/internal/auth"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	List(ctx context.Context) ([]auth.User, error)
	GetByAuthID(ctx context.Context, authID string) (*auth.User, error)
	GetByID(ctx context.Context, userID uint64) (*auth.User, error)
}

type AuthHandler struct {
	Svc AuthService
	JWT *auth.JWT
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	u, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}

	token, err := h.JWT.Sign(u.AuthID)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"access_token": token,
		"user":         u,
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	res, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *AuthHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, users)
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		respondErr(w, err)
		return
	}
	u, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}

// Me returns the caller's own profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authID, ok := auth.AuthIDFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]any{"error": "unauthenticated"})
		return
	}
	u, err := h.Svc.GetByAuthID(r.Context(), authID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, u)
}
