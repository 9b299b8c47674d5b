package project

import "time"

type Project struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"userId"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updatedAt"`

	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

type Task struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	ProjectID      uint64    `gorm:"index;not null" json:"projectId"`
	Title          string    `gorm:"not null" json:"title"`
	Description    *string   `json:"description,omitempty"`
	Status         string    `gorm:"not null;default:'pending'" json:"status"`
	EstimatedHours *float64  `json:"estimatedHours,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}
