// services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"match-prediction-system/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// EnsureUser creates the local profile row for a gateway identity if it does
// not exist yet (idempotent). Identity issuance itself lives upstream; only
// the email is refreshed on an existing row.
func (s *UserService) EnsureUser(ctx context.Context, id, username, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{ID: id, Username: username, Email: email}
		if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	if email != "" && email != user.Email {
		user.Email = email
		if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}
