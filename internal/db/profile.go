package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Profile is the account record shared with the session principal.
// Counter fields are denormalized caches, rebuilt by reconciliation.
type Profile struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null"`
	DisplayName  string
	AvatarURL    string
	Bio          string
	Role         string `gorm:"not null;default:user"`
	Suspended    bool
	PasswordHash string `gorm:"not null"`
	PostCount    int
	LikeCount    int
	ViewCount    int
	CommentCount int
}

// EnsureAdmin creates a bootstrap admin account when both credentials
// are non-empty and no profile with that username exists yet.
func EnsureAdmin(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing Profile
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&Profile{
			Username:     trimmedUser,
			DisplayName:  trimmedUser,
			Role:         "admin",
			PasswordHash: string(hashed),
		}).Error
	}

	return nil
}
