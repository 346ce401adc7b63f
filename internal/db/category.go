package db

import (
	"errors"

	"gorm.io/gorm"
)

// Category groups posts. PostCount is a denormalized cache.
type Category struct {
	gorm.Model
	Slug        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description string
	PostCount   int
}

// EnsureCategories seeds the starter categories on an empty table so a
// fresh install has somewhere to file posts.
func EnsureCategories() error {
	if DB == nil {
		return errors.New("database not initialized")
	}

	var count int64
	if err := DB.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []Category{
		{Slug: "general", Name: "General", Description: "Everything that fits nowhere else"},
		{Slug: "tutorials", Name: "Tutorials", Description: "Step by step guides"},
		{Slug: "opinions", Name: "Opinions", Description: "Essays and commentary"},
		{Slug: "showcase", Name: "Showcase", Description: "Show off what you built"},
	}
	return DB.Create(&defaults).Error
}
