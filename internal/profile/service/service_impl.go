package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmedooo1/nfeat/internal/auth/password"
	"github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("profile"),
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (domain.Response, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Response{}, domain.ErrUserNotFound
		}
		return domain.Response{}, err
	}
	return toResponse(user), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Response{}, domain.ErrInvalidEmail
	}
	if name == "" {
		return domain.Response{}, domain.ErrInvalidName
	}

	var updated domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, "id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if email != user.Email {
			var count int64
			if err := tx.Model(&domain.User{}).
				Where("email = ? AND id <> ?", email, req.UserID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrEmailTaken
			}
		}

		user.Email = email
		user.Name = name
		user.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return domain.Response{}, err
	}

	s.log.Info("profile updated", zap.String("user_id", updated.ID.String()))
	return toResponse(updated), nil
}

func (s *Service) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, "id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if !password.Verify(req.CurrentPassword, user.PasswordHash) {
			return domain.ErrInvalidPassword
		}

		hashed, err := password.Hash(req.NewPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user.PasswordHash = hashed
		user.LastPasswordChanged = &now
		user.UpdatedAt = now
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		s.log.Info("password changed", zap.String("user_id", user.ID.String()))
		return nil
	})
}

func toResponse(user domain.User) domain.Response {
	return domain.Response{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Address:   user.Address,
		Picture:   user.Picture,
	}
}
