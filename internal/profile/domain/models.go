package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User is an account able to order and receive receipts.
type User struct {
	ID                  snowflake.ID      `gorm:"primaryKey"`
	Email               string            `gorm:"type:text;not null;uniqueIndex"`
	Name                string            `gorm:"type:text;not null"`
	FirstName           string            `gorm:"type:text"`
	LastName            string            `gorm:"type:text"`
	Phone               string            `gorm:"type:text"`
	Address             string            `gorm:"type:text"`
	Picture             string            `gorm:"type:text"`
	PasswordHash        string            `gorm:"type:text;not null"`
	LastPasswordChanged *time.Time
	Preferences         datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
