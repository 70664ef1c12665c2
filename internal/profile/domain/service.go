package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type UpdateRequest struct {
	UserID snowflake.ID
	Email  string
	Name   string
}

type ChangePasswordRequest struct {
	UserID          snowflake.ID
	CurrentPassword string
	NewPassword     string
}

// Response is the profile view returned to the front-end and to the
// enrichment fetch.
type Response struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Picture   string `json:"picture"`
}

type Service interface {
	Get(ctx context.Context, userID snowflake.ID) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrUserNotFound    = errors.New("user_not_found")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrEmailTaken      = errors.New("email_taken")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrWeakPassword    = errors.New("weak_password")
)
