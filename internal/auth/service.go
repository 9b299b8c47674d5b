package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pulse/internal/apperr"
)

type Service struct {
	DB  *gorm.DB
	JWT *JWT
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullname" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token string `json:"access_token"`
	User  *User  `json:"user"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = "user"
	}

	u := User{
		AuthID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		u.Phone = &p
	}

	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperr.Conflict("user already exists")
	}
	return &u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, apperr.Forbidden("invalid email or password")
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, apperr.Forbidden("invalid email or password")
	}

	token, err := s.JWT.Sign(u.AuthID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: &u}, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByAuthID(ctx context.Context, authID string) (*User, error) {
	return FindByAuthID(s.DB.WithContext(ctx), authID)
}

func (s *Service) GetByID(ctx context.Context, userID uint64) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// FindByAuthID resolves a token subject to its user row. Shared by the
// other services, which receive callers as auth ids.
func FindByAuthID(tx *gorm.DB, authID string) (*User, error) {
	var u User
	if err := tx.Where("auth_id = ?", authID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}
