package comment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
	"pulse/internal/post"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Content  string  `json:"content" validate:"required"`
	ParentID *uint64 `json:"parentId"`
}

func (s *Service) Create(ctx context.Context, authID string, postID uint64, in CreateInput) (*Comment, error) {
	tx := s.DB.WithContext(ctx)

	author, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	var p post.Post
	if err := tx.Where("id = ?", postID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}

	if in.ParentID != nil {
		var parent Comment
		if err := tx.Where("id = ? AND post_id = ?", *in.ParentID, postID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent comment not found")
			}
			return nil, err
		}
	}

	c := Comment{
		PostID:   postID,
		AuthorID: author.ID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Update(ctx context.Context, commentID uint64, content string) (*Comment, error) {
	tx := s.DB.WithContext(ctx)

	c, err := find(tx, commentID)
	if err != nil {
		return nil, err
	}
	if err := tx.Model(&Comment{}).Where("id = ?", commentID).
		Update("content", content).Error; err != nil {
		return nil, err
	}
	c.Content = content
	return c, nil
}

func (s *Service) Delete(ctx context.Context, commentID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, commentID); err != nil {
			return err
		}
		if err := tx.Exec(`delete from post_reactions where comment_id = ?`, commentID).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", commentID).Delete(&Comment{}).Error
	})
}

func (s *Service) Get(ctx context.Context, commentID uint64) (*View, error) {
	tx := s.DB.WithContext(ctx)

	c, err := find(tx, commentID)
	if err != nil {
		return nil, err
	}
	return s.view(tx, *c, true)
}

func (s *Service) ListByPost(ctx context.Context, postID uint64) ([]View, error) {
	tx := s.DB.WithContext(ctx)

	var comments []Comment
	if err := tx.Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, err
	}

	out := make([]View, 0, len(comments))
	for _, c := range comments {
		v, err := s.view(tx, c, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Service) ListReplies(ctx context.Context, parentID uint64) ([]View, error) {
	tx := s.DB.WithContext(ctx)

	var replies []Comment
	if err := tx.Where("parent_id = ?", parentID).
		Order("created_at asc").Find(&replies).Error; err != nil {
		return nil, err
	}

	out := make([]View, 0, len(replies))
	for _, r := range replies {
		v, err := s.view(tx, r, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Service) view(tx *gorm.DB, c Comment, withReplies bool) (*View, error) {
	var count int64
	if err := tx.Table("post_reactions").Where("comment_id = ?", c.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	v := View{Comment: c, ReactionCount: count}

	if withReplies {
		var replies []Comment
		if err := tx.Where("parent_id = ?", c.ID).Order("created_at asc").Find(&replies).Error; err != nil {
			return nil, err
		}
		for _, r := range replies {
			rv, err := s.view(tx, r, false)
			if err != nil {
				return nil, err
			}
			v.Replies = append(v.Replies, *rv)
		}
	}
	return &v, nil
}

func find(tx *gorm.DB, commentID uint64) (*Comment, error) {
	var c Comment
	if err := tx.Where("id = ?", commentID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, err
	}
	return &c, nil
}
