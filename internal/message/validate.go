package message

import (
	"strings"

	"pulse/internal/apperr"
)

// AttachmentInput describes an attachment coming in with a send request,
// either from an upload or pre-resolved by the client.
type AttachmentInput struct {
	URL      string `json:"url" validate:"required"`
	Type     string `json:"type" validate:"required"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Duration int    `json:"duration"`
}

type CallInput struct {
	Type     string `json:"type" validate:"required"`
	Status   string `json:"status" validate:"required"`
	Duration int    `json:"duration"`
}

// validatePayload enforces the type/payload contract: TEXT needs content,
// media types need an attachment, CALL needs call parameters. Any other
// type value is rejected.
func validatePayload(msgType string, content string, att *AttachmentInput, call *CallInput) error {
	switch msgType {
	case TypeText:
		if strings.TrimSpace(content) == "" {
			return apperr.BadRequest("text content required")
		}
	case TypeImage, TypeVideo, TypeAudio, TypeFile:
		if att == nil {
			return apperr.BadRequest("attachment required")
		}
	case TypeCall:
		if call == nil {
			return apperr.BadRequest("call data required")
		}
	default:
		return apperr.BadRequest("invalid message type")
	}
	return nil
}

// allSeen reports whether every non-sender member has a non-null read
// timestamp. memberIDs is the full chat membership.
func allSeen(memberIDs []uint64, senderID uint64, readByUser map[uint64]bool) bool {
	for _, id := range memberIDs {
		if id == senderID {
			continue
		}
		if !readByUser[id] {
			return false
		}
	}
	return true
}

// callVariant picks the call type from the media flag and chat kind.
func callVariant(isVideo, isGroup bool) string {
	if isVideo {
		if isGroup {
			return CallGroupVideo
		}
		return CallVideo
	}
	if isGroup {
		return CallGroupVoice
	}
	return CallVoice
}
