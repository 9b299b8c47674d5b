package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

type CreateInput struct {
	ParticipantIDs []uint64 `json:"participantIds" validate:"required,min=1"`
	Name           string   `json:"name"`
	IsGroup        bool     `json:"isGroup"`
}

func (s *Service) Create(ctx context.Context, authID string, in CreateInput) (*Detail, error) {
	if !in.IsGroup && len(in.ParticipantIDs) != 1 {
		return nil, apperr.BadRequest("direct chat must have exactly one participant")
	}
	if in.IsGroup && strings.TrimSpace(in.Name) == "" {
		return nil, apperr.BadRequest("group chats must have a name")
	}

	var out *Detail
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		creator, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		members := dedupe(append([]uint64{creator.ID}, in.ParticipantIDs...))
		// A direct chat with yourself collapses to a single member here.
		if !in.IsGroup && len(members) != 2 {
			return apperr.BadRequest("direct chat participant must be another user")
		}

		var count int64
		if err := tx.Model(&auth.User{}).Where("id IN ?", members).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(members) {
			return apperr.NotFound("one or more users not found")
		}

		// Advisory duplicate check for the unordered direct pair. Two
		// simultaneous creations can still both pass; see DESIGN.md.
		if !in.IsGroup {
			exists, err := directChatExists(tx, members[0], members[1])
			if err != nil {
				return err
			}
			if exists {
				return apperr.Conflict("direct chat already exists")
			}
		}

		c := Chat{IsGroup: in.IsGroup}
		if in.IsGroup {
			name := strings.TrimSpace(in.Name)
			c.Name = &name
			c.AdminID = &creator.ID
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}

		rows := make([]UserChat, 0, len(members))
		for _, uid := range members {
			rows = append(rows, UserChat{ChatID: c.ID, UserID: uid, JoinedAt: time.Now()})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		out, err = loadDetail(tx, c.ID)
		return err
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, authID string, chatID uint64) (*Detail, error) {
	tx := s.DB.WithContext(ctx)

	caller, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	d, err := loadDetail(tx, chatID)
	if err != nil {
		return nil, err
	}

	if !containsMember(d.Members, caller.ID) {
		return nil, apperr.Forbidden("access to chat denied")
	}
	return d, nil
}

func (s *Service) ListForUser(ctx context.Context, authID string) ([]Summary, error) {
	tx := s.DB.WithContext(ctx)

	caller, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	var chats []Chat
	if err := tx.
		Joins("JOIN user_chats uc ON uc.chat_id = chats.id").
		Where("uc.user_id = ?", caller.ID).
		Order("chats.updated_at desc").
		Find(&chats).Error; err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(chats))
	for _, c := range chats {
		members, err := loadMembers(tx, c.ID)
		if err != nil {
			return nil, err
		}
		sum := Summary{Chat: c, Members: members}

		var prev Preview
		err = tx.Raw(`
			select id, content, type, status, sender_id, chat_id, deleted_for_everyone, created_at
			from messages
			where chat_id = ?
			order by created_at desc
			limit 1
		`, c.ID).Scan(&prev).Error
		if err != nil {
			return nil, err
		}
		if prev.ID != 0 {
			sum.LastMessage = &prev
		}
		out = append(out, sum)
	}
	return out, nil
}

type AddParticipantsInput struct {
	UserIDs []uint64 `json:"userIds" validate:"required,min=1"`
}

func (s *Service) AddParticipants(ctx context.Context, authID string, chatID uint64, userIDs []uint64) (*Detail, error) {
	var out *Detail
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		c, err := findChat(tx, chatID)
		if err != nil {
			return err
		}
		if c.IsGroup && (c.AdminID == nil || *c.AdminID != caller.ID) {
			return apperr.Forbidden("only group admin can add participants")
		}

		var count int64
		if err := tx.Model(&auth.User{}).Where("id IN ?", userIDs).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(userIDs) {
			return apperr.NotFound("one or more users not found")
		}

		var existing []uint64
		if err := tx.Model(&UserChat{}).Where("chat_id = ?", chatID).Pluck("user_id", &existing).Error; err != nil {
			return err
		}
		fresh := diff(userIDs, existing)
		if len(fresh) == 0 {
			return apperr.BadRequest("all users are already in the chat")
		}

		rows := make([]UserChat, 0, len(fresh))
		for _, uid := range fresh {
			rows = append(rows, UserChat{ChatID: chatID, UserID: uid, JoinedAt: time.Now()})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		out, err = loadDetail(tx, chatID)
		return err
	})
	return out, err
}

func (s *Service) Rename(ctx context.Context, authID string, chatID uint64, name string) (*Detail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("name is required")
	}

	tx := s.DB.WithContext(ctx)

	caller, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}
	c, err := findChat(tx, chatID)
	if err != nil {
		return nil, err
	}
	if c.IsGroup && (c.AdminID == nil || *c.AdminID != caller.ID) {
		return nil, apperr.Forbidden("only group admin can update chat")
	}

	if err := tx.Model(&Chat{}).Where("id = ?", chatID).
		Updates(map[string]any{"name": name, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}
	return loadDetail(tx, chatID)
}

// RemoveParticipant kicks another member out of a group. Removing yourself
// through this path is rejected; there is no separate leave operation.
func (s *Service) RemoveParticipant(ctx context.Context, authID string, chatID, userID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}
		if caller.ID == userID {
			return apperr.BadRequest("you cannot remove yourself from the chat")
		}

		c, err := findChat(tx, chatID)
		if err != nil {
			return err
		}
		if c.IsGroup && (c.AdminID == nil || *c.AdminID != caller.ID) {
			return apperr.Forbidden("only group admin can remove participants")
		}

		res := tx.Where("chat_id = ? AND user_id = ?", chatID, userID).Delete(&UserChat{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user is not a chat member")
		}
		return nil
	})
}

// Delete removes a chat and everything hanging off it, children first.
// The deletion order is the invariant: reactions and receipt/delete markers
// before messages, messages before memberships, memberships before the chat.
func (s *Service) Delete(ctx context.Context, authID string, chatID uint64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caller, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}
		c, err := findChat(tx, chatID)
		if err != nil {
			return err
		}

		var membership UserChat
		memErr := tx.Where("chat_id = ? AND user_id = ?", chatID, caller.ID).
			First(&membership).Error
		if memErr != nil && !errors.Is(memErr, gorm.ErrRecordNotFound) {
			return memErr
		}
		isMember := memErr == nil
		isAdmin := c.IsGroup && c.AdminID != nil && *c.AdminID == caller.ID
		if !isMember && !isAdmin {
			return apperr.Forbidden("not authorized to delete this chat")
		}

		stmts := []string{
			`delete from post_reactions where message_id in (select id from messages where chat_id = ?)`,
			`delete from read_receipts where message_id in (select id from messages where chat_id = ?)`,
			`delete from message_deletes where message_id in (select id from messages where chat_id = ?)`,
			`delete from call_participants where call_id in (select c.id from calls c join messages m on m.id = c.message_id where m.chat_id = ?)`,
			`delete from calls where message_id in (select id from messages where chat_id = ?)`,
			`delete from attachments where message_id in (select id from messages where chat_id = ?)`,
			`delete from messages where chat_id = ?`,
			`delete from user_chats where chat_id = ?`,
			`delete from chats where id = ?`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt, chatID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && apperr.KindOf(err) == apperr.KindInternal {
		s.Log.Error().Err(err).Uint64("chat_id", chatID).Msg("delete chat failed")
		return apperr.Internal("failed to delete chat", err)
	}
	return err
}

func findChat(tx *gorm.DB, chatID uint64) (*Chat, error) {
	var c Chat
	if err := tx.Where("id = ?", chatID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("chat not found")
		}
		return nil, err
	}
	return &c, nil
}

func loadMembers(tx *gorm.DB, chatID uint64) ([]Member, error) {
	var members []Member
	err := tx.Raw(`
		select u.id as user_id, u.auth_id, u.full_name, u.profile_photo
		from user_chats uc
		join users u on u.id = uc.user_id
		where uc.chat_id = ?
		order by uc.joined_at asc
	`, chatID).Scan(&members).Error
	return members, err
}

func loadDetail(tx *gorm.DB, chatID uint64) (*Detail, error) {
	c, err := findChat(tx, chatID)
	if err != nil {
		return nil, err
	}
	members, err := loadMembers(tx, chatID)
	if err != nil {
		return nil, err
	}
	return &Detail{Chat: *c, Members: members}, nil
}

func directChatExists(tx *gorm.DB, a, b uint64) (bool, error) {
	var ids []uint64
	err := tx.Raw(`
		select c.id
		from chats c
		join user_chats uc on uc.chat_id = c.id
		where c.is_group = false
		group by c.id
		having count(*) = 2
		   and count(*) filter (where uc.user_id in (?, ?)) = 2
	`, a, b).Scan(&ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func containsMember(members []Member, userID uint64) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func dedupe(ids []uint64) []uint64 {
	seen := map[uint64]struct{}{}
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func diff(candidates, existing []uint64) []uint64 {
	have := map[uint64]struct{}{}
	for _, id := range existing {
		have[id] = struct{}{}
	}
	var out []uint64
	for _, id := range candidates {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
