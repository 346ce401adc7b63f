package service

import (
	"testing"
	"time"

	"github.com/inkwell/internal/auth"
)

func TestResolveStatus_PublishingRoles(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, role := range []string{auth.RoleAdmin, auth.RoleModerator, auth.RoleAuthor} {
		status, publishedAt := ResolveStatus(role, false, now)
		if status != StatusPublished {
			t.Fatalf("role %s publish intent: expected published, got %s", role, status)
		}
		if publishedAt == nil || !publishedAt.Equal(now) {
			t.Fatalf("role %s publish intent: expected published_at %v, got %v", role, now, publishedAt)
		}

		status, publishedAt = ResolveStatus(role, true, now)
		if status != StatusDraft {
			t.Fatalf("role %s draft intent: expected draft, got %s", role, status)
		}
		if publishedAt != nil {
			t.Fatalf("role %s draft intent: expected nil published_at, got %v", role, publishedAt)
		}
	}
}

func TestResolveStatus_ContributorGoesPending(t *testing.T) {
	now := time.Now()

	status, publishedAt := ResolveStatus(auth.RoleContributor, false, now)
	if status != StatusPending {
		t.Fatalf("expected pending, got %s", status)
	}
	if publishedAt != nil {
		t.Fatalf("expected nil published_at for pending, got %v", publishedAt)
	}

	status, _ = ResolveStatus(auth.RoleContributor, true, now)
	if status != StatusDraft {
		t.Fatalf("expected draft, got %s", status)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusDraft, StatusPending, StatusPublished, StatusRejected} {
		if !ValidStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if ValidStatus("archived") {
		t.Fatal("archived should not be a valid status")
	}
}
