package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func createProfile(t *testing.T, gdb *gorm.DB, username, role string) *db.Profile {
	t.Helper()
	profile := db.Profile{
		Username:     username,
		DisplayName:  username,
		Role:         role,
		PasswordHash: "x",
	}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("create profile %s: %v", username, err)
	}
	return &profile
}

func principalFor(profile *db.Profile) auth.Principal {
	return auth.Principal{
		ID:        profile.ID,
		Username:  profile.Username,
		Role:      profile.Role,
		Suspended: profile.Suspended,
	}
}
