package habit

import "time"

// Habit status values.
const (
	StatusNotStarted = "NotStarted"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusAbandoned  = "Abandoned"
)

// Badge categories.
const (
	BadgeStreak      = "Streak"
	BadgeConsistency = "Consistency"
)

type Habit struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"index;not null" json:"userId"`
	Name         string    `gorm:"not null" json:"name"`
	Description  *string   `json:"description,omitempty"`
	Type         string    `json:"type"`
	WeeklyTarget int       `gorm:"not null;default:0" json:"weeklyTarget"`
	Status       string    `gorm:"not null;default:'NotStarted'" json:"status"`
	Streak       int       `gorm:"not null;default:0" json:"streak"`
	GoalID       *uint64   `gorm:"index" json:"goalId,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updatedAt"`

	Completions []Completion `gorm:"foreignKey:HabitID" json:"completions,omitempty"`
	Badges      []Badge      `gorm:"foreignKey:HabitID" json:"badges,omitempty"`
}

// Goal is an optional grouping a habit can point at.
type Goal struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"index;not null" json:"userId"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

type Completion struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	HabitID   uint64    `gorm:"index;not null" json:"habitId"`
	Completed bool      `gorm:"not null" json:"completed"`
	Notes     *string   `json:"notes,omitempty"`
	Date      time.Time `gorm:"index;not null;default:now()" json:"date"`
}

func (Completion) TableName() string { return "habit_completions" }

// Badge is a one-time achievement tied to a streak or completion-count
// threshold.
type Badge struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	HabitID     uint64    `gorm:"index;not null" json:"habitId"`
	Type        string    `gorm:"not null" json:"type"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"createdAt"`
}
