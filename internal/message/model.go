package message

import "time"

// Message types.
const (
	TypeText  = "TEXT"
	TypeImage = "IMAGE"
	TypeVideo = "VIDEO"
	TypeAudio = "AUDIO"
	TypeFile  = "FILE"
	TypeCall  = "CALL"
)

// Delivery status. SEEN is derived from read receipts, never client-set.
const (
	StatusDelivered = "DELIVERED"
	StatusSeen      = "SEEN"
)

// Call lifecycle.
const (
	CallOngoing   = "ONGOING"
	CallCompleted = "COMPLETED"
)

// Call variants.
const (
	CallVoice      = "VOICE"
	CallVideo      = "VIDEO"
	CallGroupVoice = "GROUP_VOICE"
	CallGroupVideo = "GROUP_VIDEO"
)

type Message struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	ChatID             uint64    `gorm:"index;not null" json:"chatId"`
	SenderID           uint64    `gorm:"index;not null" json:"senderId"`
	ParentID           *uint64   `gorm:"index" json:"parentId,omitempty"`
	Type               string    `gorm:"not null" json:"type"`
	Status             string    `gorm:"not null;default:'DELIVERED'" json:"status"`
	Content            *string   `json:"content"`
	DeletedForEveryone bool      `gorm:"not null;default:false" json:"deletedForEveryone"`
	CreatedAt          time.Time `gorm:"index;not null;default:now()" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updatedAt"`

	Attachment *Attachment `gorm:"foreignKey:MessageID" json:"attachment,omitempty"`
	Call       *Call       `gorm:"foreignKey:MessageID" json:"call,omitempty"`
}

type Attachment struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	MessageID uint64  `gorm:"uniqueIndex;not null" json:"messageId"`
	URL       string  `gorm:"not null" json:"url"`
	Type      string  `gorm:"not null" json:"type"`
	FileName  *string `json:"fileName,omitempty"`
	FileSize  *int64  `json:"fileSize,omitempty"`
	Width     *int    `json:"width,omitempty"`
	Height    *int    `json:"height,omitempty"`
	Duration  *int    `json:"duration,omitempty"`
}

type Call struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	MessageID uint64     `gorm:"uniqueIndex;not null" json:"messageId"`
	Type      string     `gorm:"not null" json:"type"`
	Status    string     `gorm:"not null;default:'ONGOING'" json:"status"`
	Duration  int        `gorm:"not null;default:0" json:"duration"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"createdAt"`

	Participants []CallParticipant `gorm:"foreignKey:CallID" json:"participants,omitempty"`
}

type CallParticipant struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	CallID   uint64    `gorm:"index;not null" json:"callId"`
	UserID   uint64    `gorm:"not null" json:"userId"`
	JoinedAt time.Time `gorm:"not null;default:now()" json:"joinedAt"`
}

// ReadReceipt exists for every member other than the sender, created with
// the message. ReadAt stays null until that member observes it.
type ReadReceipt struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	MessageID uint64     `gorm:"index;not null;uniqueIndex:uq_receipt_msg_user" json:"messageId"`
	UserID    uint64     `gorm:"not null;uniqueIndex:uq_receipt_msg_user" json:"userId"`
	ReadAt    *time.Time `json:"readAt"`
}

// MessageDelete is the per-user hide marker ("delete for me").
type MessageDelete struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	MessageID uint64 `gorm:"index;not null;uniqueIndex:uq_msgdel_msg_user" json:"messageId"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uq_msgdel_msg_user" json:"userId"`
}
