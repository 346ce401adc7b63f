package db

import "gorm.io/gorm"

// Notification is a per-user inbox entry written on comment and like
// activity. Link is an optional deep link into the site.
type Notification struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Type   string `gorm:"not null"`
	Title  string
	Body   string
	Link   string
	IsRead bool `gorm:"index"`
}
