package reaction

import "time"

// Reaction targets exactly one of a post, a comment, or a message. The
// storage row keeps three mutually exclusive nullable references; the
// service API works in terms of Target so only one can ever be set.
type Reaction struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"index;not null;uniqueIndex:uq_reaction_user_post;uniqueIndex:uq_reaction_user_comment;uniqueIndex:uq_reaction_user_message" json:"userId"`
	Type      string    `gorm:"not null" json:"type"`
	PostID    *uint64   `gorm:"index;uniqueIndex:uq_reaction_user_post" json:"postId"`
	CommentID *uint64   `gorm:"index;uniqueIndex:uq_reaction_user_comment" json:"commentId"`
	MessageID *uint64   `gorm:"index;uniqueIndex:uq_reaction_user_message" json:"messageId"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Reaction) TableName() string { return "post_reactions" }

type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetMessage TargetKind = "message"
)

// Target is the tagged variant form of a reaction's subject.
type Target struct {
	Kind TargetKind
	ID   uint64
}

// Outcome of a toggle call.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Result reports what the toggle did. Reaction is nil when the toggle
// removed an existing reaction.
type Result struct {
	Action    string    `json:"action"`
	Reaction  *Reaction `json:"reaction,omitempty"`
	RemovedID uint64    `json:"removedId,omitempty"`
}
