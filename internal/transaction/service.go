package transaction

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

type Input struct {
	Description   string     `json:"description" validate:"required"`
	Amount        float64    `json:"amount" validate:"required"`
	Date          *time.Time `json:"date"`
	Category      string     `json:"category" validate:"required"`
	Type          string     `json:"type" validate:"required"`
	Source        string     `json:"source" validate:"required"`
	FeeDeductions float64    `json:"feeDeductions"`
	TaxDeductions float64    `json:"taxDeductions"`
}

func (s *Service) Create(ctx context.Context, authID string, in Input) (*Transaction, error) {
	tx := s.DB.WithContext(ctx)

	owner, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	t := Transaction{
		UserID:        owner.ID,
		Description:   in.Description,
		Amount:        in.Amount,
		Date:          date,
		Category:      in.Category,
		Type:          in.Type,
		Source:        in.Source,
		FeeDeductions: in.FeeDeductions,
		TaxDeductions: in.TaxDeductions,
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) List(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := s.DB.WithContext(ctx).Order("date desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Transaction, error) {
	return find(s.DB.WithContext(ctx), id)
}

func (s *Service) Update(ctx context.Context, id uint64, in Input) (*Transaction, error) {
	tx := s.DB.WithContext(ctx)

	if _, err := find(tx, id); err != nil {
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	if err := tx.Model(&Transaction{}).Where("id = ?", id).Updates(map[string]any{
		"description":    in.Description,
		"amount":         in.Amount,
		"date":           date,
		"category":       in.Category,
		"type":           in.Type,
		"source":         in.Source,
		"fee_deductions": in.FeeDeductions,
		"tax_deductions": in.TaxDeductions,
	}).Error; err != nil {
		return nil, err
	}
	return find(tx, id)
}

func (s *Service) Remove(ctx context.Context, id uint64) error {
	tx := s.DB.WithContext(ctx)

	if _, err := find(tx, id); err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&Transaction{}).Error
}

func find(tx *gorm.DB, id uint64) (*Transaction, error) {
	var t Transaction
	if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, err
	}
	return &t, nil
}
