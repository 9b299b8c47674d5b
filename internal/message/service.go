package message

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pulse/internal/apperr"
	"pulse/internal/auth"
	"pulse/internal/chat"
	"pulse/internal/realtime"
)

type Service struct {
	DB  *gorm.DB
	RT  realtime.Broadcaster
	Log zerolog.Logger
}

type SendInput struct {
	ChatID     uint64           `json:"chatId" validate:"required"`
	Content    string           `json:"content"`
	Type       string           `json:"type" validate:"required"`
	ParentID   *uint64          `json:"parentId"`
	Attachment *AttachmentInput `json:"attachment"`
	Call       *CallInput       `json:"call"`
}

// Send validates the payload against its declared type and writes the
// message, its read receipts, and any attachment or call rows in one
// transaction. Nothing persists if any step fails.
func (s *Service) Send(ctx context.Context, authID string, in SendInput) (*Message, error) {
	if err := validatePayload(in.Type, in.Content, in.Attachment, in.Call); err != nil {
		return nil, err
	}

	var msg *Message
	var chatID uint64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sender, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		_, members, err := loadChatMembers(tx, in.ChatID)
		if err != nil {
			return err
		}
		if !contains(members, sender.ID) {
			return apperr.Forbidden("not a chat member")
		}

		m := Message{
			ChatID:   in.ChatID,
			SenderID: sender.ID,
			ParentID: in.ParentID,
			Type:     in.Type,
			Status:   StatusDelivered,
		}
		if in.Type == TypeText || in.Content != "" {
			content := in.Content
			m.Content = &content
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		if err := createReceipts(tx, m.ID, members, sender.ID); err != nil {
			return err
		}

		if in.Attachment != nil {
			att := attachmentRow(m.ID, in.Attachment)
			if err := tx.Create(att).Error; err != nil {
				return err
			}
			m.Attachment = att
		}

		if in.Type == TypeCall && in.Call != nil {
			call := Call{
				MessageID: m.ID,
				Type:      in.Call.Type,
				Status:    in.Call.Status,
				Duration:  in.Call.Duration,
			}
			if err := tx.Create(&call).Error; err != nil {
				return err
			}
			parts := make([]CallParticipant, 0, len(members))
			for _, uid := range members {
				parts = append(parts, CallParticipant{CallID: call.ID, UserID: uid, JoinedAt: time.Now()})
			}
			if err := tx.Create(&parts).Error; err != nil {
				return err
			}
			call.Participants = parts
			m.Call = &call
		}

		msg = &m
		chatID = in.ChatID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.RT.NewMessage(chatID, msg)
	return msg, nil
}

// MarkSeen upserts the caller's read receipt and, when every other member
// has now read the message, flips its status to SEEN. The message row is
// locked for the duration so concurrent readers cannot miss the flip.
func (s *Service) MarkSeen(ctx context.Context, authID string, messageID uint64) (*Message, error) {
	var msg *Message
	flipped := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		var m Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", messageID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("message not found")
			}
			return err
		}

		_, members, err := loadChatMembers(tx, m.ChatID)
		if err != nil {
			return err
		}
		if !contains(members, caller.ID) {
			return apperr.Forbidden("not a chat member")
		}
		// The sender has no receipt row; reading your own message is a no-op.
		if caller.ID == m.SenderID {
			msg = &m
			return nil
		}

		now := time.Now()
		receipt := ReadReceipt{MessageID: messageID, UserID: caller.ID, ReadAt: &now}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"read_at": now}),
		}).Create(&receipt).Error; err != nil {
			return err
		}

		var receipts []ReadReceipt
		if err := tx.Where("message_id = ?", messageID).Find(&receipts).Error; err != nil {
			return err
		}
		readBy := map[uint64]bool{}
		for _, r := range receipts {
			if r.ReadAt != nil {
				readBy[r.UserID] = true
			}
		}

		if m.Status != StatusSeen && allSeen(members, m.SenderID, readBy) {
			if err := tx.Model(&Message{}).Where("id = ?", messageID).
				Updates(map[string]any{"status": StatusSeen, "updated_at": now}).Error; err != nil {
				return err
			}
			m.Status = StatusSeen
			flipped = true
		}
		msg = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if flipped {
		s.RT.MessageStatus(msg.ChatID, msg.ID, StatusSeen)
	}
	return msg, nil
}

// UpdateStatus sets the delivery status directly and announces it.
func (s *Service) UpdateStatus(ctx context.Context, messageID uint64, status string) (*Message, error) {
	if status != StatusDelivered && status != StatusSeen {
		return nil, apperr.BadRequest("invalid message status")
	}

	tx := s.DB.WithContext(ctx)
	var m Message
	if err := tx.Where("id = ?", messageID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}

	if err := tx.Model(&Message{}).Where("id = ?", messageID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}
	m.Status = status

	s.RT.MessageStatus(m.ChatID, m.ID, status)
	return &m, nil
}

// List returns a chat's messages oldest first, excluding globally redacted
// rows and rows the caller has hidden for themselves.
func (s *Service) List(ctx context.Context, authID string, chatID uint64) ([]Message, error) {
	tx := s.DB.WithContext(ctx)

	caller, err := s.requireMember(tx, authID, chatID)
	if err != nil {
		return nil, err
	}

	var msgs []Message
	err = tx.
		Preload("Attachment").
		Preload("Call").
		Preload("Call.Participants").
		Where("chat_id = ?", chatID).
		Where("deleted_for_everyone = false").
		Where("id NOT IN (select message_id from message_deletes where user_id = ?)", caller.ID).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Unseen returns the chat messages the caller has not read yet, oldest first.
func (s *Service) Unseen(ctx context.Context, authID string, chatID uint64) ([]Message, error) {
	tx := s.DB.WithContext(ctx)

	caller, err := s.requireMember(tx, authID, chatID)
	if err != nil {
		return nil, err
	}

	var msgs []Message
	err = tx.
		Preload("Attachment").
		Joins("JOIN read_receipts rr ON rr.message_id = messages.id").
		Where("messages.chat_id = ?", chatID).
		Where("rr.user_id = ? AND rr.read_at IS NULL", caller.ID).
		Order("messages.created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// CallResult pairs the CALL message with its call row for broadcasting.
type CallResult struct {
	Message *Message `json:"message"`
	Call    *Call    `json:"call"`
}

// StartCall creates a CALL message plus an ONGOING call with the initiator
// as first participant, atomically.
func (s *Service) StartCall(ctx context.Context, authID string, chatID uint64, isVideo bool) (*CallResult, error) {
	var out *CallResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		c, members, err := loadChatMembers(tx, chatID)
		if err != nil {
			return err
		}
		if !contains(members, caller.ID) {
			return apperr.Forbidden("not a chat member")
		}

		m := Message{
			ChatID:   chatID,
			SenderID: caller.ID,
			Type:     TypeCall,
			Status:   StatusDelivered,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := createReceipts(tx, m.ID, members, caller.ID); err != nil {
			return err
		}

		call := Call{
			MessageID: m.ID,
			Type:      callVariant(isVideo, c.IsGroup),
			Status:    CallOngoing,
		}
		if err := tx.Create(&call).Error; err != nil {
			return err
		}
		initiator := CallParticipant{CallID: call.ID, UserID: caller.ID, JoinedAt: time.Now()}
		if err := tx.Create(&initiator).Error; err != nil {
			return err
		}
		call.Participants = []CallParticipant{initiator}

		m.Call = &call
		out = &CallResult{Message: &m, Call: &call}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.RT.CallStarted(chatID, out)
	return out, nil
}

// EndCall completes a call, stamping its duration and end time.
func (s *Service) EndCall(ctx context.Context, callID uint64, duration int) (*CallResult, error) {
	tx := s.DB.WithContext(ctx)

	var call Call
	if err := tx.Where("id = ?", callID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("call not found")
		}
		return nil, err
	}

	now := time.Now()
	if err := tx.Model(&Call{}).Where("id = ?", callID).Updates(map[string]any{
		"status":   CallCompleted,
		"duration": duration,
		"ended_at": now,
	}).Error; err != nil {
		return nil, err
	}
	call.Status = CallCompleted
	call.Duration = duration
	call.EndedAt = &now

	var m Message
	if err := tx.Where("id = ?", call.MessageID).First(&m).Error; err != nil {
		return nil, err
	}
	m.Call = &call

	out := &CallResult{Message: &m, Call: &call}
	s.RT.CallEnded(m.ChatID, out)
	return out, nil
}

// Delete redacts a message for everyone (sender or group admin only) or
// hides it for the caller. Re-hiding an already-hidden message is a no-op.
func (s *Service) Delete(ctx context.Context, authID string, messageID uint64, forEveryone bool) error {
	var chatID uint64
	var hiderID uint64
	broadcast := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		var m Message
		if err := tx.Where("id = ?", messageID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("message not found")
			}
			return err
		}

		c, members, err := loadChatMembers(tx, m.ChatID)
		if err != nil {
			return err
		}
		if !contains(members, caller.ID) {
			return apperr.Forbidden("not a chat member")
		}
		chatID = m.ChatID
		hiderID = caller.ID

		if forEveryone {
			isSender := m.SenderID == caller.ID
			isAdmin := c.IsGroup && c.AdminID != nil && *c.AdminID == caller.ID
			if !isSender && !isAdmin {
				return apperr.Forbidden("only sender or admin can delete for everyone")
			}

			if err := tx.Model(&Message{}).Where("id = ?", messageID).Updates(map[string]any{
				"deleted_for_everyone": true,
				"content":              nil,
				"updated_at":           time.Now(),
			}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id = ?", messageID).Delete(&Attachment{}).Error; err != nil {
				return err
			}
			broadcast = true
			return nil
		}

		var existing MessageDelete
		err = tx.Where("message_id = ? AND user_id = ?", messageID, caller.ID).
			First(&existing).Error
		if err == nil {
			return nil // already hidden, keep it idempotent
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&MessageDelete{MessageID: messageID, UserID: caller.ID}).Error; err != nil {
			return err
		}
		broadcast = true
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.Log.Error().Err(err).Uint64("message_id", messageID).Msg("delete message failed")
			return apperr.Internal("failed to delete message", err)
		}
		return err
	}

	if broadcast {
		s.RT.MessageDeleted(chatID, messageID, forEveryone, hiderID)
	}
	return nil
}

func (s *Service) requireMember(tx *gorm.DB, authID string, chatID uint64) (*auth.User, error) {
	caller, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}
	_, members, err := loadChatMembers(tx, chatID)
	if err != nil {
		return nil, err
	}
	if !contains(members, caller.ID) {
		return nil, apperr.Forbidden("not a chat member")
	}
	return caller, nil
}

func loadChatMembers(tx *gorm.DB, chatID uint64) (*chat.Chat, []uint64, error) {
	var c chat.Chat
	if err := tx.Where("id = ?", chatID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("chat not found")
		}
		return nil, nil, err
	}
	var members []uint64
	if err := tx.Model(&chat.UserChat{}).Where("chat_id = ?", chatID).
		Pluck("user_id", &members).Error; err != nil {
		return nil, nil, err
	}
	return &c, members, nil
}

func createReceipts(tx *gorm.DB, messageID uint64, members []uint64, senderID uint64) error {
	receipts := make([]ReadReceipt, 0, len(members))
	for _, uid := range members {
		if uid == senderID {
			continue
		}
		receipts = append(receipts, ReadReceipt{MessageID: messageID, UserID: uid})
	}
	if len(receipts) == 0 {
		return nil
	}
	return tx.Create(&receipts).Error
}

func attachmentRow(messageID uint64, in *AttachmentInput) *Attachment {
	att := &Attachment{MessageID: messageID, URL: in.URL, Type: in.Type}
	if in.FileName != "" {
		att.FileName = &in.FileName
	}
	if in.FileSize > 0 {
		att.FileSize = &in.FileSize
	}
	if in.Width > 0 {
		att.Width = &in.Width
	}
	if in.Height > 0 {
		att.Height = &in.Height
	}
	if in.Duration > 0 {
		att.Duration = &in.Duration
	}
	return att
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
