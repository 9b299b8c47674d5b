package auth

import "time"

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// AuthID is the stable external identifier carried in token subjects,
	// distinct from the database primary key.
	AuthID       string    `gorm:"uniqueIndex;not null" json:"authId"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null" json:"fullname"`
	Phone        *string   `json:"phone,omitempty"`
	Role         string    `gorm:"not null;default:'user'" json:"role"`
	ProfilePhoto *string   `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"createdAt"`
}
