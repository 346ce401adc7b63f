package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrCredentialsNeeded  = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRoleInvalid        = errors.New("role is invalid")
)

// ProfileService wraps account and profile operations.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ProfileInput represents the fields a user may edit on their own
// profile.
type ProfileInput struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}

// ProfileStats aggregates the authoritative per-author numbers shown
// on the dashboard, computed from rows rather than the cached
// counters.
type ProfileStats struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
	TotalViews     int64
	TotalLikes     int64
	TotalComments  int64
}

// Register creates a new account with the base user role.
func (s *ProfileService) Register(username, password, displayName string) (*db.Profile, error) {
	trimmedUser := strings.TrimSpace(username)
	if trimmedUser == "" || strings.TrimSpace(password) == "" {
		return nil, ErrCredentialsNeeded
	}

	var taken int64
	if err := s.db.Model(&db.Profile{}).Where("username = ?", trimmedUser).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	display := strings.TrimSpace(displayName)
	if display == "" {
		display = trimmedUser
	}

	profile := db.Profile{
		Username:     trimmedUser,
		DisplayName:  display,
		Role:         auth.RoleUser,
		PasswordHash: string(hashed),
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Authenticate checks credentials and returns the matching profile.
func (s *ProfileService) Authenticate(username, password string) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &profile, nil
}

// GetByID fetches a profile by primary key.
func (s *ProfileService) GetByID(id uint) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUsername fetches a profile for the public profile page.
func (s *ProfileService) GetByUsername(username string) (*db.Profile, error) {
	var profile db.Profile
	if err := s.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update edits the principal's own profile fields.
func (s *ProfileService) Update(p auth.Principal, input ProfileInput) (*db.Profile, error) {
	if !p.IsAuthenticated() {
		return nil, auth.ErrUnauthorized
	}

	var profile db.Profile
	if err := s.db.First(&profile, p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.DisplayName = strings.TrimSpace(input.DisplayName)
	profile.Bio = strings.TrimSpace(input.Bio)
	profile.AvatarURL = strings.TrimSpace(input.AvatarURL)
	if profile.DisplayName == "" {
		profile.DisplayName = profile.Username
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangeRole sets another user's role. Admin only; self-changes and
// changes to admin targets are refused by the guard.
func (s *ProfileService) ChangeRole(p auth.Principal, targetID uint, role string) (*db.Profile, error) {
	if !auth.ValidRole(role) {
		return nil, ErrRoleInvalid
	}

	var target db.Profile
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	res := auth.Resource{OwnerID: target.ID, OwnerRole: target.Role}
	if err := auth.CanMutate(p, res, auth.ActionChangeRole); err != nil {
		return nil, err
	}

	if err := s.db.Model(&target).Update("role", role).Error; err != nil {
		return nil, err
	}
	target.Role = role
	return &target, nil
}

// SetSuspended flips another user's suspension flag. Admin only.
func (s *ProfileService) SetSuspended(p auth.Principal, targetID uint, suspended bool) (*db.Profile, error) {
	var target db.Profile
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	res := auth.Resource{OwnerID: target.ID, OwnerRole: target.Role}
	if err := auth.CanMutate(p, res, auth.ActionSuspendUser); err != nil {
		return nil, err
	}

	if err := s.db.Model(&target).Update("suspended", suspended).Error; err != nil {
		return nil, err
	}
	target.Suspended = suspended
	return &target, nil
}

// ListAll returns every profile for the admin users table, newest
// first.
func (s *ProfileService) ListAll() ([]db.Profile, error) {
	var profiles []db.Profile
	if err := s.db.Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Stats computes dashboard numbers for one author from authoritative
// rows.
func (s *ProfileService) Stats(userID uint) (*ProfileStats, error) {
	stats := &ProfileStats{}

	if err := s.db.Model(&db.Post{}).Where("author_id = ?", userID).
		Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("author_id = ? AND status = ?", userID, StatusPublished).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&db.Post{}).Where("author_id = ? AND status = ?", userID, StatusDraft).
		Count(&stats.DraftPosts).Error; err != nil {
		return nil, err
	}

	var views struct{ Total int64 }
	if err := s.db.Model(&db.Post{}).
		Select("COALESCE(SUM(view_count), 0) as total").
		Where("author_id = ?", userID).
		Scan(&views).Error; err != nil {
		return nil, err
	}
	stats.TotalViews = views.Total

	if err := s.db.Model(&db.Like{}).
		Where("post_id IN (?)", s.db.Model(&db.Post{}).Select("id").Where("author_id = ?", userID)).
		Count(&stats.TotalLikes).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Comment{}).Where("author_id = ?", userID).
		Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
