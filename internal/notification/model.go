package notification

import (
	"time"

	"gorm.io/datatypes"
)

// Notification kinds.
const (
	TypeComment       = "Comment"
	TypeWeeklySummary = "WeeklySummary"
)

type Notification struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	UserID    uint64         `gorm:"index;not null" json:"userId"`
	Type      string         `gorm:"not null" json:"type"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool           `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time      `gorm:"index;not null;default:now()" json:"createdAt"`
}
