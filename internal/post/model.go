package post

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	AuthorID   uint64         `gorm:"index;not null" json:"authorId"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Privacy    string         `gorm:"not null;default:'Public'" json:"privacy"`
	ShareCount int            `gorm:"not null;default:0" json:"shareCount"`
	IsEdited   bool           `gorm:"not null;default:false" json:"isEdited"`
	Tags       pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	CreatedAt  time.Time      `gorm:"index;not null;default:now()" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updatedAt"`

	Media []Media `gorm:"foreignKey:PostID" json:"media,omitempty"`
}

// Media is one uploaded file attached to a post.
type Media struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"index;not null" json:"postId"`
	Type      string    `gorm:"not null" json:"type"`
	URL       string    `gorm:"not null" json:"url"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Media) TableName() string { return "post_media" }

// View decorates a post with aggregate counts for feed rendering.
type View struct {
	Post
	ReactionCount int64 `json:"reactionCount"`
	CommentCount  int64 `json:"commentCount"`
}
