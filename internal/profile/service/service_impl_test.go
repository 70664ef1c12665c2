package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmedooo1/nfeat/internal/auth/password"
	"github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, pass string) domain.User {
	t.Helper()
	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	hashed, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           node.Generate(),
		Email:        email,
		Name:         "Jean Dupont",
		FirstName:    "Jean",
		LastName:     "Dupont",
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestGetReturnsProfile(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "motdepasse1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	resp, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Email != "jean@example.com" || resp.FirstName != "Jean" || resp.LastName != "Dupont" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ID != user.ID.String() {
		t.Fatalf("expected id %s, got %s", user.ID, resp.ID)
	}
}

func TestGetUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	_, err := svc.Get(context.Background(), snowflake.ID(42))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateNormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "motdepasse1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	resp, err := svc.Update(context.Background(), domain.UpdateRequest{
		UserID: user.ID,
		Email:  "  Jean.Dupont@Example.COM ",
		Name:   "Jean Dupont",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Email != "jean.dupont@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.Email)
	}
}

func TestUpdateValidation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "motdepasse1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	_, err := svc.Update(context.Background(), domain.UpdateRequest{UserID: user.ID, Email: "pas-un-email", Name: "Jean"})
	if !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	_, err = svc.Update(context.Background(), domain.UpdateRequest{UserID: user.ID, Email: "jean@example.com", Name: "   "})
	if !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "motdepasse1")

	other := user
	other.ID = user.ID + 1
	other.Email = "taken@example.com"
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}

	svc := NewService(Params{DB: db, Log: zap.NewNop()})
	_, err := svc.Update(context.Background(), domain.UpdateRequest{UserID: user.ID, Email: "taken@example.com", Name: "Jean"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateKeepingOwnEmail(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "motdepasse1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	resp, err := svc.Update(context.Background(), domain.UpdateRequest{
		UserID: user.ID,
		Email:  "jean@example.com",
		Name:   "Jean D.",
	})
	if err != nil {
		t.Fatalf("update with unchanged email: %v", err)
	}
	if resp.Name != "Jean D." {
		t.Fatalf("expected updated name, got %q", resp.Name)
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "ancien-mdp-1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	err := svc.ChangePassword(context.Background(), domain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "ancien-mdp-1",
		NewPassword:     "nouveau-mdp-1",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	var stored domain.User
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !password.Verify("nouveau-mdp-1", stored.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
	if password.Verify("ancien-mdp-1", stored.PasswordHash) {
		t.Fatalf("old password still verifies")
	}
	if stored.LastPasswordChanged == nil {
		t.Fatalf("expected LastPasswordChanged to be set")
	}
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "ancien-mdp-1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	err := svc.ChangePassword(context.Background(), domain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "mauvais-mdp",
		NewPassword:     "nouveau-mdp-1",
	})
	if !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestChangePasswordRejectsWeak(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "jean@example.com", "ancien-mdp-1")
	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	err := svc.ChangePassword(context.Background(), domain.ChangePasswordRequest{
		UserID:          user.ID,
		CurrentPassword: "ancien-mdp-1",
		NewPassword:     "court",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
