package chat

import "time"

// Chat is either a two-party direct conversation (no name, no admin) or a
// named group with a designated admin.
type Chat struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      *string   `json:"name"`
	IsGroup   bool      `gorm:"not null;default:false" json:"isGroup"`
	AdminID   *uint64   `gorm:"index" json:"adminId"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

// UserChat is the membership join table.
type UserChat struct {
	ChatID   uint64    `gorm:"primaryKey" json:"chatId"`
	UserID   uint64    `gorm:"primaryKey;index" json:"userId"`
	JoinedAt time.Time `gorm:"not null;default:now()" json:"joinedAt"`
}

// Member is a membership row joined with the user's display fields.
type Member struct {
	UserID       uint64  `json:"userId"`
	AuthID       string  `json:"authId"`
	FullName     string  `json:"fullname"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// Detail is a chat with its resolved member list.
type Detail struct {
	Chat
	Members []Member `json:"members"`
}

// Summary is one row of the caller's chat list, carrying the latest
// visible message preview.
type Summary struct {
	Chat
	Members     []Member `json:"members"`
	LastMessage *Preview `json:"lastMessage,omitempty"`
}

// Preview is the last-message projection used by chat listings.
type Preview struct {
	ID                 uint64    `gorm:"column:id" json:"id"`
	Content            *string   `gorm:"column:content" json:"content"`
	Type               string    `gorm:"column:type" json:"type"`
	Status             string    `gorm:"column:status" json:"status"`
	SenderID           uint64    `gorm:"column:sender_id" json:"senderId"`
	ChatID             uint64    `gorm:"column:chat_id" json:"chatId"`
	DeletedForEveryone bool      `gorm:"column:deleted_for_everyone" json:"deletedForEveryone"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"createdAt"`
}
