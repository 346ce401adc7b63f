package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the global database handle shared by the service layer.
var DB *gorm.DB

// Init opens the database connection and runs auto-migration for the
// core models. An empty databasePath falls back to inkwell.db.
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "inkwell.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate creates or updates tables for every model. Exposed so tests
// can run it against their own in-memory databases.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Profile{},
		&Category{},
		&Post{},
		&Comment{},
		&Like{},
		&Bookmark{},
		&Notification{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
