package habit

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

type Input struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description"`
	Type         string  `json:"type"`
	WeeklyTarget int     `json:"weeklyTarget"`
	Status       string  `json:"status"`
	GoalID       *uint64 `json:"goalId"`
}

func (s *Service) Create(ctx context.Context, authID string, in Input) (*Habit, error) {
	tx := s.DB.WithContext(ctx)

	user, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	if in.GoalID != nil {
		if err := checkGoal(tx, *in.GoalID, user.ID); err != nil {
			return nil, err
		}
	}

	status := in.Status
	if status == "" {
		status = StatusNotStarted
	}

	h := Habit{
		UserID:       user.ID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Type:         in.Type,
		WeeklyTarget: in.WeeklyTarget,
		Status:       status,
		GoalID:       in.GoalID,
	}
	if err := tx.Create(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Service) ListForUser(ctx context.Context, authID string) ([]Habit, error) {
	tx := s.DB.WithContext(ctx)

	user, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	var habits []Habit
	err = tx.
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date desc").Limit(7)
		}).
		Preload("Badges").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *Service) Get(ctx context.Context, habitID uint64) (*Habit, error) {
	tx := s.DB.WithContext(ctx)

	var h Habit
	err := tx.
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date desc").Limit(30)
		}).
		Preload("Badges").
		Where("id = ?", habitID).
		First(&h).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("habit not found")
		}
		return nil, err
	}
	return &h, nil
}

func (s *Service) Update(ctx context.Context, habitID uint64, in Input) (*Habit, error) {
	tx := s.DB.WithContext(ctx)

	h, err := find(tx, habitID)
	if err != nil {
		return nil, err
	}

	if in.GoalID != nil {
		if err := checkGoal(tx, *in.GoalID, h.UserID); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{
		"name":          strings.TrimSpace(in.Name),
		"description":   in.Description,
		"type":          in.Type,
		"weekly_target": in.WeeklyTarget,
		"goal_id":       in.GoalID,
		"updated_at":    time.Now(),
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}
	if err := tx.Model(&Habit{}).Where("id = ?", habitID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return find(tx, habitID)
}

func (s *Service) UpdateStatus(ctx context.Context, habitID uint64, status string) (*Habit, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := find(tx, habitID); err != nil {
		return nil, err
	}
	if err := tx.Model(&Habit{}).Where("id = ?", habitID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}
	return find(tx, habitID)
}

// RecordCompletion appends a completion row and maintains the streak and
// badge state in one transaction. A completed entry bumps the streak and
// may unlock threshold badges; a missed entry resets the streak to zero.
func (s *Service) RecordCompletion(ctx context.Context, habitID uint64, completed bool, notes string) (*Completion, error) {
	var out *Completion
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := find(tx, habitID)
		if err != nil {
			return err
		}

		c := Completion{HabitID: habitID, Completed: completed, Date: time.Now()}
		if n := strings.TrimSpace(notes); n != "" {
			c.Notes = &n
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}

		streak := h.Streak
		if completed {
			streak++

			var total int64
			if err := tx.Model(&Completion{}).
				Where("habit_id = ? AND completed = true", habitID).
				Count(&total).Error; err != nil {
				return err
			}

			for _, spec := range earnedBadges(streak, int(total)) {
				b := Badge{
					HabitID:     habitID,
					Type:        spec.Type,
					Name:        spec.Name,
					Description: spec.Description,
				}
				if err := tx.Create(&b).Error; err != nil {
					return err
				}
			}
		} else {
			streak = 0
		}

		if err := tx.Model(&Habit{}).Where("id = ?", habitID).Updates(map[string]any{
			"streak":     streak,
			"status":     StatusInProgress,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}

		out = &c
		return nil
	})
	return out, err
}

// Reset wipes the completion history and zeroes the streak. The updated
// timestamp becomes the new week start.
func (s *Service) Reset(ctx context.Context, habitID uint64) (*Habit, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, habitID); err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", habitID).Delete(&Completion{}).Error; err != nil {
			return err
		}
		return tx.Model(&Habit{}).Where("id = ?", habitID).Updates(map[string]any{
			"streak":     0,
			"status":     StatusInProgress,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, habitID)
}

// Remove deletes a habit with its completions and badges, children first.
func (s *Service) Remove(ctx context.Context, habitID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, habitID); err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", habitID).Delete(&Completion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", habitID).Delete(&Badge{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", habitID).Delete(&Habit{}).Error
	})
}

// WeeklyData returns a user's habit activity from the trailing 7 days,
// feeding the summary job.
func (s *Service) WeeklyData(ctx context.Context, userID uint64) ([]Habit, error) {
	since := time.Now().AddDate(0, 0, -7)

	var habits []Habit
	err := s.DB.WithContext(ctx).
		Preload("Completions", func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ?", since).Order("date desc")
		}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

func find(tx *gorm.DB, habitID uint64) (*Habit, error) {
	var h Habit
	if err := tx.Where("id = ?", habitID).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("habit not found")
		}
		return nil, err
	}
	return &h, nil
}

func checkGoal(tx *gorm.DB, goalID, userID uint64) error {
	var g Goal
	if err := tx.Where("id = ?", goalID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("goal not found")
		}
		return err
	}
	if g.UserID != userID {
		return apperr.Forbidden("goal does not belong to this user")
	}
	return nil
}
