package reaction

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

// React toggles the caller's reaction on a target inside one transaction:
// no prior reaction creates one, a different type updates in place, the
// same type removes it.
func (s *Service) React(ctx context.Context, authID string, target Target, reactionType string) (*Result, error) {
	if reactionType == "" {
		return nil, apperr.BadRequest("reaction type is required")
	}

	var out *Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}
		if err := s.checkTarget(tx, target); err != nil {
			return err
		}

		var existing Reaction
		err = targetScope(tx, target).Where("user_id = ?", user.ID).First(&existing).Error
		switch {
		case err == nil && existing.Type == reactionType:
			if err := tx.Where("id = ?", existing.ID).Delete(&Reaction{}).Error; err != nil {
				return err
			}
			out = &Result{Action: ActionDeleted, RemovedID: existing.ID}
			return nil

		case err == nil:
			if err := tx.Model(&Reaction{}).Where("id = ?", existing.ID).
				Update("type", reactionType).Error; err != nil {
				return err
			}
			existing.Type = reactionType
			out = &Result{Action: ActionUpdated, Reaction: &existing}
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			r := Reaction{UserID: user.ID, Type: reactionType}
			switch target.Kind {
			case TargetPost:
				r.PostID = &target.ID
			case TargetComment:
				r.CommentID = &target.ID
			case TargetMessage:
				r.MessageID = &target.ID
			}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			out = &Result{Action: ActionCreated, Reaction: &r}
			return nil

		default:
			return err
		}
	})
	return out, err
}

func (s *Service) Remove(ctx context.Context, reactionID uint64) error {
	tx := s.DB.WithContext(ctx)

	var r Reaction
	if err := tx.Where("id = ?", reactionID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("reaction not found")
		}
		return err
	}
	return tx.Where("id = ?", reactionID).Delete(&Reaction{}).Error
}

// CommentCounts is one comment with its reaction tally.
type CommentCounts struct {
	ID            uint64 `json:"id"`
	Content       string `json:"content"`
	ReactionCount int64  `json:"reactionCount"`
}

// PostCountDetails aggregates reaction counts for a post and each of its
// comments.
type PostCountDetails struct {
	PostReactions int64           `json:"postReactions"`
	CommentCount  int64           `json:"commentCount"`
	Comments      []CommentCounts `json:"comments"`
}

func (s *Service) PostCounts(ctx context.Context, postID uint64) (*PostCountDetails, error) {
	tx := s.DB.WithContext(ctx)

	out := PostCountDetails{Comments: []CommentCounts{}}
	if err := tx.Model(&Reaction{}).Where("post_id = ?", postID).Count(&out.PostReactions).Error; err != nil {
		return nil, err
	}
	if err := tx.Table("post_comments").Where("post_id = ?", postID).Count(&out.CommentCount).Error; err != nil {
		return nil, err
	}
	if err := tx.Raw(`
		select c.id, c.content, count(r.id) as reaction_count
		from post_comments c
		left join post_reactions r on r.comment_id = c.id
		where c.post_id = ?
		group by c.id, c.content
		order by c.id asc
	`, postID).Scan(&out.Comments).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// MessageBreakdown groups one message's reactions by type.
type MessageBreakdown struct {
	Total        int64            `json:"total"`
	CountsByType map[string]int64 `json:"countsByType"`
	Reactions    []Reaction       `json:"reactions"`
}

func (s *Service) MessageReactions(ctx context.Context, messageID uint64) (*MessageBreakdown, error) {
	tx := s.DB.WithContext(ctx)

	var reactions []Reaction
	if err := tx.Where("message_id = ?", messageID).Find(&reactions).Error; err != nil {
		return nil, err
	}

	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	if err := tx.Model(&Reaction{}).
		Select("type, count(*) as count").
		Where("message_id = ?", messageID).
		Group("type").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return &MessageBreakdown{
		Total:        int64(len(reactions)),
		CountsByType: counts,
		Reactions:    reactions,
	}, nil
}

// MessageCounts returns total reaction counts keyed by message id.
func (s *Service) MessageCounts(ctx context.Context, messageIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64)
	if len(messageIDs) == 0 {
		return out, nil
	}

	type row struct {
		MessageID uint64
		Count     int64
	}
	var rows []row
	if err := s.DB.WithContext(ctx).Model(&Reaction{}).
		Select("message_id, count(*) as count").
		Where("message_id IN ?", messageIDs).
		Group("message_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.MessageID] = r.Count
	}
	return out, nil
}

func (s *Service) checkTarget(tx *gorm.DB, target Target) error {
	var table, what string
	switch target.Kind {
	case TargetPost:
		table, what = "posts", "post"
	case TargetComment:
		table, what = "post_comments", "comment"
	case TargetMessage:
		table, what = "messages", "message"
	default:
		return apperr.BadRequest("invalid reaction target")
	}

	var count int64
	if err := tx.Table(table).Where("id = ?", target.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound(what + " not found")
	}
	return nil
}

// targetScope narrows a query to one target variant, forcing the other
// two references to be null.
func targetScope(tx *gorm.DB, target Target) *gorm.DB {
	switch target.Kind {
	case TargetPost:
		return tx.Where("post_id = ? AND comment_id IS NULL AND message_id IS NULL", target.ID)
	case TargetComment:
		return tx.Where("comment_id = ? AND post_id IS NULL AND message_id IS NULL", target.ID)
	default:
		return tx.Where("message_id = ? AND post_id IS NULL AND comment_id IS NULL", target.ID)
	}
}
