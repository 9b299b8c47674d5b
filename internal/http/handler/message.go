package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pulse/internal/apperr"
	"pulse/internal/message"
	"pulse/internal/realtime"
	"pulse/internal/upload"
)

type MessageService interface {
	Send(ctx context.Context, authID string, in message.SendInput) (*message.Message, error)
	MarkSeen(ctx context.Context, authID string, messageID uint64) (*message.Message, error)
	UpdateStatus(ctx context.Context, messageID uint64, status string) (*message.Message, error)
	List(ctx context.Context, authID string, chatID uint64) ([]message.Message, error)
	Unseen(ctx context.Context, authID string, chatID uint64) ([]message.Message, error)
	StartCall(ctx context.Context, authID string, chatID uint64, isVideo bool) (*message.CallResult, error)
	EndCall(ctx context.Context, callID uint64, duration int) (*message.CallResult, error)
	Delete(ctx context.Context, authID string, messageID uint64, forEveryone bool) error
}

type MessageHandler struct {
	Svc     MessageService
	Users   AuthService
	Uploads *upload.Store
	RT      realtime.Broadcaster
}

const maxUploadBytes = 32 << 20

// Send accepts either a JSON body or a multipart form with an optional
// file part. An uploaded file is stored first; the message then carries
// its attachment metadata.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in message.SendInput

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondErr(w, apperr.BadRequest("invalid multipart form"))
			return
		}
		chatID, err := strconv.ParseUint(r.FormValue("chatId"), 10, 64)
		if err != nil {
			respondErr(w, apperr.BadRequest("invalid chatId"))
			return
		}
		in.ChatID = chatID
		in.Content = r.FormValue("content")
		in.Type = r.FormValue("type")
		if v := r.FormValue("parentId"); v != "" {
			pid, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				respondErr(w, apperr.BadRequest("invalid parentId"))
				return
			}
			in.ParentID = &pid
		}

		if f, fh, err := r.FormFile("file"); err == nil {
			f.Close()
			saved, err := h.Uploads.Save(fh)
			if err != nil {
				respondErr(w, err)
				return
			}
			if in.Type == "" {
				in.Type = saved.Kind
				if saved.Kind == "DOCUMENT" {
					in.Type = message.TypeFile
				}
			}
			in.Attachment = &message.AttachmentInput{
				URL:      saved.URL,
				Type:     saved.Kind,
				FileName: saved.FileName,
				FileSize: saved.FileSize,
			}
		}
	} else {
		if err := decode(r, &in); err != nil {
			respondErr(w, err)
			return
		}
	}

	msg, err := h.Svc.Send(r.Context(), caller(r), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, msg)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		respondErr(w, err)
		return
	}
	msgs, err := h.Svc.List(r.Context(), caller(r), chatID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, msgs)
}

func (h *MessageHandler) Unseen(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r, "chatId")
	if err != nil {
		respondErr(w, err)
		return
	}
	msgs, err := h.Svc.Unseen(r.Context(), caller(r), chatID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, msgs)
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "messageId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req updateStatusReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	msg, err := h.Svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, msg)
}

func (h *MessageHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "messageId")
	if err != nil {
		respondErr(w, err)
		return
	}
	msg, err := h.Svc.MarkSeen(r.Context(), caller(r), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, msg)
}

type typingReq struct {
	ChatID   uint64 `json:"chatId" validate:"required"`
	IsTyping bool   `json:"isTyping"`
}

// Typing is fire-and-forget: it only fans out a realtime event, nothing
// is persisted.
func (h *MessageHandler) Typing(w http.ResponseWriter, r *http.Request) {
	var req typingReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	u, err := h.Users.GetByAuthID(r.Context(), caller(r))
	if err != nil {
		respondErr(w, err)
		return
	}

	h.RT.Typing(req.ChatID, u.ID, u.FullName, req.IsTyping)
	respond(w, http.StatusOK, map[string]any{"message": "ok"})
}

type startCallReq struct {
	ChatID  uint64 `json:"chatId" validate:"required"`
	IsVideo bool   `json:"isVideo"`
}

func (h *MessageHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	var req startCallReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	res, err := h.Svc.StartCall(r.Context(), caller(r), req.ChatID, req.IsVideo)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, res)
}

type endCallReq struct {
	Duration int `json:"duration"`
}

func (h *MessageHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	callID, err := pathID(r, "callId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req endCallReq
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	res, err := h.Svc.EndCall(r.Context(), callID, req.Duration)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	forEveryone := r.URL.Query().Get("forEveryone") == "true"

	if err := h.Svc.Delete(r.Context(), caller(r), id, forEveryone); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "message deleted"})
}
