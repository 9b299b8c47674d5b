package comment

import "time"

// Comment belongs to a post and may reply to another comment via ParentID.
// One nesting level is modeled; deeper chains are not prevented.
type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"index;not null" json:"postId"`
	AuthorID  uint64    `gorm:"index;not null" json:"authorId"`
	ParentID  *uint64   `gorm:"index" json:"parentId,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Comment) TableName() string { return "post_comments" }

// View decorates a comment with its reaction count and replies.
type View struct {
	Comment
	ReactionCount int64  `json:"reactionCount"`
	Replies       []View `json:"replies,omitempty"`
}
