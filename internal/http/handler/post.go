package handler

import (
	"context"
	"net/http"
	"strings"

	"pulse/internal/apperr"
	"pulse/internal/post"
	"pulse/internal/upload"
)

type PostService interface {
	Create(ctx context.Context, authID string, in post.CreateInput, media []post.MediaInput) (*post.Post, error)
	ListAll(ctx context.Context) ([]post.View, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]post.View, error)
	Update(ctx context.Context, postID uint64, in post.UpdateInput, media []post.MediaInput) (*post.Post, error)
	Delete(ctx context.Context, postID uint64) error
	Share(ctx context.Context, postID uint64) (*post.Post, error)
}

type PostHandler struct {
	Svc     PostService
	Uploads *upload.Store
}

// collectMedia stores every supported file part under "media" and skips
// parts whose MIME type is not image, video, or audio.
func (h *PostHandler) collectMedia(r *http.Request) ([]post.MediaInput, error) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, nil
	}
	var out []post.MediaInput
	for _, fh := range r.MultipartForm.File["media"] {
		kind, ok := upload.MediaKindFromMIME(fh.Header.Get("Content-Type"))
		if !ok {
			continue
		}
		saved, err := h.Uploads.Save(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, post.MediaInput{
			Type:     kind,
			URL:      saved.URL,
			FileName: saved.FileName,
			FileSize: saved.FileSize,
		})
	}
	return out, nil
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in post.CreateInput
	var media []post.MediaInput

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondErr(w, apperr.BadRequest("invalid multipart form"))
			return
		}
		in.Content = r.FormValue("content")
		in.Privacy = r.FormValue("privacy")
		if strings.TrimSpace(in.Content) == "" {
			respondErr(w, apperr.BadRequest("content required"))
			return
		}
		var err error
		if media, err = h.collectMedia(r); err != nil {
			respondErr(w, err)
			return
		}
	} else {
		if err := decode(r, &in); err != nil {
			respondErr(w, err)
			return
		}
	}

	p, err := h.Svc.Create(r.Context(), caller(r), in, media)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Svc.ListAll(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, posts)
}

func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := pathID(r, "authorId")
	if err != nil {
		respondErr(w, err)
		return
	}
	posts, err := h.Svc.ListByAuthor(r.Context(), authorID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, posts)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}

	var in post.UpdateInput
	var media []post.MediaInput

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondErr(w, apperr.BadRequest("invalid multipart form"))
			return
		}
		if v := r.FormValue("content"); v != "" {
			in.Content = &v
		}
		if v := r.FormValue("privacy"); v != "" {
			in.Privacy = &v
		}
		if media, err = h.collectMedia(r); err != nil {
			respondErr(w, err)
			return
		}
	} else {
		if err := decode(r, &in); err != nil {
			respondErr(w, err)
			return
		}
	}

	p, err := h.Svc.Update(r.Context(), id, in, media)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "post deleted"})
}

func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	p, err := h.Svc.Share(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}
