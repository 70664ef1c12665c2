package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmedooo1/nfeat/internal/auth/password"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultUserEmail    = "admin@nfeat.fr"
	defaultUserPassword = "changeme-nfeat"
	defaultUserName     = "NF-EAT Admin"
)

// EnsureDefaultUser seeds a local account so the profile and receipt flows
// work on a fresh database.
func EnsureDefaultUser(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user profiledomain.User
		err := tx.WithContext(ctx).
			Where("email = ?", defaultUserEmail).
			First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(defaultUserPassword)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = profiledomain.User{
			ID:           node.Generate(),
			Email:        strings.ToLower(defaultUserEmail),
			Name:         defaultUserName,
			PasswordHash: hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
