package service

import (
	"errors"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService wraps the per-user inbox.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a NotificationService instance.
func NewNotificationService(gdb *gorm.DB) *NotificationService {
	return &NotificationService{db: gdb}
}

// createNotification writes one inbox row inside the caller's
// transaction so fan-out lives or dies with the triggering mutation.
func createNotification(tx *gorm.DB, userID uint, kind, title, body, link string) error {
	return tx.Create(&db.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
		Link:   link,
	}).Error
}

// List returns the principal's newest notifications, capped at limit
// (default 10).
func (s *NotificationService) List(p auth.Principal, limit int) ([]db.Notification, error) {
	if !p.IsAuthenticated() {
		return nil, auth.ErrUnauthorized
	}
	if limit <= 0 {
		limit = 10
	}

	var notifications []db.Notification
	if err := s.db.Where("user_id = ?", p.ID).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns how many of the principal's notifications are
// still unread.
func (s *NotificationService) UnreadCount(p auth.Principal) (int64, error) {
	if !p.IsAuthenticated() {
		return 0, auth.ErrUnauthorized
	}

	var count int64
	if err := s.db.Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", p.ID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flags one of the principal's notifications as read. Rows
// belonging to other users are reported as not found.
func (s *NotificationService) MarkRead(p auth.Principal, id uint) error {
	if !p.IsAuthenticated() {
		return auth.ErrUnauthorized
	}

	result := s.db.Model(&db.Notification{}).
		Where("id = ? AND user_id = ?", id, p.ID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the principal.
func (s *NotificationService) MarkAllRead(p auth.Principal) error {
	if !p.IsAuthenticated() {
		return auth.ErrUnauthorized
	}

	return s.db.Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", p.ID, false).
		Update("is_read", true).Error
}
