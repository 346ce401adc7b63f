package service

import (
	"time"

	"github.com/inkwell/internal/auth"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether status is one of the four post statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// ResolveStatus maps the acting role and the save-as-draft intent to
// the post status written on create and on every edit. Authors and
// staff publish directly; contributors land in the moderation queue.
// The returned timestamp is non-nil exactly for published posts.
func ResolveStatus(role string, draft bool, now time.Time) (string, *time.Time) {
	if draft {
		return StatusDraft, nil
	}

	switch role {
	case auth.RoleAdmin, auth.RoleModerator, auth.RoleAuthor:
		published := now
		return StatusPublished, &published
	case auth.RoleContributor:
		return StatusPending, nil
	default:
		// The guard rejects plain users before this runs; anything
		// that slips through waits for moderation.
		return StatusPending, nil
	}
}
