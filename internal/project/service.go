package project

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

type Input struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (s *Service) Create(ctx context.Context, authID string, in Input) (*Project, error) {
	tx := s.DB.WithContext(ctx)

	owner, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	p := Project{
		UserID:      owner.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Service) Get(ctx context.Context, projectID uint64) (*Project, error) {
	var p Project
	err := s.DB.WithContext(ctx).Preload("Tasks").Where("id = ?", projectID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, projectID uint64, in Input) (*Project, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := findProject(tx, projectID); err != nil {
		return nil, err
	}
	if err := tx.Model(&Project{}).Where("id = ?", projectID).Updates(map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"description": in.Description,
	}).Error; err != nil {
		return nil, err
	}
	return findProject(tx, projectID)
}

// Remove deletes a project and its tasks.
func (s *Service) Remove(ctx context.Context, projectID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findProject(tx, projectID); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&Task{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", projectID).Delete(&Project{}).Error
	})
}

type TaskInput struct {
	Title          string   `json:"title" validate:"required"`
	Description    *string  `json:"description"`
	Status         string   `json:"status"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

func (s *Service) CreateTask(ctx context.Context, projectID uint64, in TaskInput) (*Task, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := findProject(tx, projectID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = "pending"
	}
	t := Task{
		ProjectID:      projectID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Status:         status,
		EstimatedHours: in.EstimatedHours,
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) ListTasks(ctx context.Context, projectID uint64) ([]Task, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := findProject(tx, projectID); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := tx.Where("project_id = ?", projectID).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) GetTask(ctx context.Context, taskID uint64) (*Task, error) {
	return findTask(s.DB.WithContext(ctx), taskID)
}

func (s *Service) UpdateTask(ctx context.Context, taskID uint64, in TaskInput) (*Task, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := findTask(tx, taskID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":           strings.TrimSpace(in.Title),
		"description":     in.Description,
		"estimated_hours": in.EstimatedHours,
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}
	if err := tx.Model(&Task{}).Where("id = ?", taskID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return findTask(tx, taskID)
}

func (s *Service) RemoveTask(ctx context.Context, taskID uint64) error {
	tx := s.DB.WithContext(ctx)

	if _, err := findTask(tx, taskID); err != nil {
		return err
	}
	return tx.Where("id = ?", taskID).Delete(&Task{}).Error
}

func findProject(tx *gorm.DB, projectID uint64) (*Project, error) {
	var p Project
	if err := tx.Where("id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return &p, nil
}

func findTask(tx *gorm.DB, taskID uint64) (*Task, error) {
	var t Task
	if err := tx.Where("id = ?", taskID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	return &t, nil
}
