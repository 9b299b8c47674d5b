package notification

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pulse/internal/apperr"
	"pulse/internal/auth"
)

type Service struct {
	DB *gorm.DB
}

// SendToUser stores a titled notification for one user.
func (s *Service) SendToUser(ctx context.Context, userID uint64, notifType, title, message string) (*Notification, error) {
	n := Notification{
		UserID:  userID,
		Type:    notifType,
		Content: fmt.Sprintf("%s\n\n%s", title, message),
		Data:    datatypes.JSON([]byte(fmt.Sprintf(`{"title":%q}`, title))),
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Service) ListForUser(ctx context.Context, authID string) ([]Notification, error) {
	tx := s.DB.WithContext(ctx)

	user, err := auth.FindByAuthID(tx, authID)
	if err != nil {
		return nil, err
	}

	var out []Notification
	if err := tx.Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID uint64) (*Notification, error) {
	tx := s.DB.WithContext(ctx)

	var n Notification
	if err := tx.Where("id = ?", notificationID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("notification not found")
		}
		return nil, err
	}
	if err := tx.Model(&Notification{}).Where("id = ?", notificationID).
		Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	return &n, nil
}
