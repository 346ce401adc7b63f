package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInvalid  = errors.New("category name is required")
	ErrCategoryTaken    = errors.New("category slug already exists")
)

// CategoryService wraps category lookups and admin management.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches one category for its listing page.
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create adds a category. Route-gated to admins.
func (s *CategoryService) Create(name, description string) (*db.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryInvalid
	}

	slug := slugify(trimmed)
	var taken int64
	if err := s.db.Model(&db.Category{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrCategoryTaken
	}

	category := db.Category{
		Slug:        slug,
		Name:        trimmed,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
