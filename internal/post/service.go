package post

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Content string `json:"content" validate:"required"`
	Privacy string `json:"privacy"`
}

type UpdateInput struct {
	Content *string `json:"content"`
	Privacy *string `json:"privacy"`
}

// MediaInput is an already-stored upload to attach to a post.
type MediaInput struct {
	Type     string
	URL      string
	FileName string
	FileSize int64
}

func (s *Service) Create(ctx context.Context, authID string, in CreateInput, media []MediaInput) (*Post, error) {
	var out *Post
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := auth.FindByAuthID(tx, authID)
		if err != nil {
			return err
		}

		privacy := in.Privacy
		if privacy == "" {
			privacy = "Public"
		}

		p := Post{
			AuthorID: author.ID,
			Content:  in.Content,
			Privacy:  privacy,
			Tags:     pq.StringArray(ExtractTags(in.Content)),
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		for _, m := range media {
			row := Media{
				PostID:   p.ID,
				Type:     m.Type,
				URL:      m.URL,
				FileName: m.FileName,
				FileSize: m.FileSize,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			p.Media = append(p.Media, row)
		}

		out = &p
		return nil
	})
	return out, err
}

func (s *Service) ListAll(ctx context.Context) ([]View, error) {
	var posts []Post
	if err := s.DB.WithContext(ctx).Preload("Media").
		Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID uint64) ([]View, error) {
	var posts []Post
	if err := s.DB.WithContext(ctx).Preload("Media").
		Where("author_id = ?", authorID).
		Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *Service) decorate(ctx context.Context, posts []Post) ([]View, error) {
	tx := s.DB.WithContext(ctx)
	out := make([]View, 0, len(posts))
	for _, p := range posts {
		var reactions, comments int64
		if err := tx.Table("post_reactions").Where("post_id = ?", p.ID).Count(&reactions).Error; err != nil {
			return nil, err
		}
		if err := tx.Table("post_comments").Where("post_id = ?", p.ID).Count(&comments).Error; err != nil {
			return nil, err
		}
		out = append(out, View{Post: p, ReactionCount: reactions, CommentCount: comments})
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, postID uint64, in UpdateInput, media []MediaInput) (*Post, error) {
	var out *Post
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := find(tx, postID)
		if err != nil {
			return err
		}

		if in.Content != nil {
			p.Content = *in.Content
			p.Tags = pq.StringArray(ExtractTags(p.Content))
		}
		if in.Privacy != nil {
			p.Privacy = *in.Privacy
		}
		p.IsEdited = true
		p.UpdatedAt = time.Now()

		if err := tx.Model(&Post{}).Where("id = ?", postID).Updates(map[string]any{
			"content":    p.Content,
			"privacy":    p.Privacy,
			"tags":       p.Tags,
			"is_edited":  true,
			"updated_at": p.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		for _, m := range media {
			row := Media{
				PostID:   postID,
				Type:     m.Type,
				URL:      m.URL,
				FileName: m.FileName,
				FileSize: m.FileSize,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		out = p
		return tx.Preload("Media").Where("id = ?", postID).First(out).Error
	})
	return out, err
}

// Delete removes a post and its dependents, children first: media,
// reactions, comment reactions, comments, then the post row.
func (s *Service) Delete(ctx context.Context, postID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, postID); err != nil {
			return err
		}

		stmts := []string{
			`delete from post_media where post_id = ?`,
			`delete from post_reactions where comment_id in (select id from post_comments where post_id = ?)`,
			`delete from post_reactions where post_id = ?`,
			`delete from post_comments where post_id = ?`,
			`delete from posts where id = ?`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt, postID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Share(ctx context.Context, postID uint64) (*Post, error) {
	tx := s.DB.WithContext(ctx)
	if _, err := find(tx, postID); err != nil {
		return nil, err
	}
	if err := tx.Model(&Post{}).Where("id = ?", postID).
		Update("share_count", gorm.Expr("share_count + 1")).Error; err != nil {
		return nil, err
	}
	return find(tx, postID)
}

func find(tx *gorm.DB, postID uint64) (*Post, error) {
	var p Post
	if err := tx.Preload("Media").Where("id = ?", postID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return &p, nil
}
