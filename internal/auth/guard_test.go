package auth

import (
	"errors"
	"testing"
)

func TestCanMutate_AnonymousIsUnauthorized(t *testing.T) {
	err := CanMutate(Principal{}, Resource{}, ActionCreatePost)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCanMutate_CreatePostRoles(t *testing.T) {
	cases := []struct {
		role    string
		allowed bool
	}{
		{RoleUser, false},
		{RoleContributor, true},
		{RoleAuthor, true},
		{RoleModerator, true},
		{RoleAdmin, true},
	}

	for _, tc := range cases {
		err := CanMutate(Principal{ID: 1, Role: tc.role}, Resource{}, ActionCreatePost)
		if tc.allowed && err != nil {
			t.Fatalf("role %s: expected create post allowed, got %v", tc.role, err)
		}
		if !tc.allowed && !errors.Is(err, ErrForbidden) {
			t.Fatalf("role %s: expected ErrForbidden, got %v", tc.role, err)
		}
	}
}

func TestCanMutate_SuspendedCannotCreate(t *testing.T) {
	p := Principal{ID: 1, Role: RoleAuthor, Suspended: true}
	if err := CanMutate(p, Resource{}, ActionCreatePost); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for suspended author, got %v", err)
	}
	if err := CanMutate(p, Resource{}, ActionCreateComment); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for suspended commenter, got %v", err)
	}
}

func TestCanMutate_EditPostIsOwnershipOnly(t *testing.T) {
	post := Resource{OwnerID: 7}

	if err := CanMutate(Principal{ID: 7, Role: RoleContributor}, post, ActionEditPost); err != nil {
		t.Fatalf("owner should edit own post, got %v", err)
	}
	if err := CanMutate(Principal{ID: 8, Role: RoleAdmin}, post, ActionEditPost); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin must not edit someone else's post, got %v", err)
	}
}

func TestCanMutate_DeletePost(t *testing.T) {
	post := Resource{OwnerID: 7}

	if err := CanMutate(Principal{ID: 7, Role: RoleUser}, post, ActionDeletePost); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := CanMutate(Principal{ID: 9, Role: RoleModerator}, post, ActionDeletePost); err != nil {
		t.Fatalf("moderator delete any: %v", err)
	}
	if err := CanMutate(Principal{ID: 9, Role: RoleAuthor}, post, ActionDeletePost); !errors.Is(err, ErrForbidden) {
		t.Fatalf("author must not delete someone else's post, got %v", err)
	}
}

func TestCanMutate_DeleteComment(t *testing.T) {
	comment := Resource{OwnerID: 3}

	if err := CanMutate(Principal{ID: 3, Role: RoleUser}, comment, ActionDeleteComment); err != nil {
		t.Fatalf("author delete own comment: %v", err)
	}
	if err := CanMutate(Principal{ID: 4, Role: RoleUser}, comment, ActionDeleteComment); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user delete comment should fail, got %v", err)
	}
	if err := CanMutate(Principal{ID: 4, Role: RoleAdmin}, comment, ActionDeleteComment); err != nil {
		t.Fatalf("admin delete any comment: %v", err)
	}
}

func TestCanMutate_FeatureIsAdminOnly(t *testing.T) {
	if err := CanMutate(Principal{ID: 1, Role: RoleModerator}, Resource{}, ActionFeaturePost); !errors.Is(err, ErrForbidden) {
		t.Fatalf("moderator feature toggle should fail, got %v", err)
	}
	if err := CanMutate(Principal{ID: 1, Role: RoleAdmin}, Resource{}, ActionFeaturePost); err != nil {
		t.Fatalf("admin feature toggle: %v", err)
	}
}

func TestCanMutate_ChangeRole(t *testing.T) {
	target := Resource{OwnerID: 5, OwnerRole: RoleContributor}

	if err := CanMutate(Principal{ID: 1, Role: RoleModerator}, target, ActionChangeRole); !errors.Is(err, ErrForbidden) {
		t.Fatalf("moderator role change should fail, got %v", err)
	}
	if err := CanMutate(Principal{ID: 1, Role: RoleAdmin}, target, ActionChangeRole); err != nil {
		t.Fatalf("admin role change: %v", err)
	}

	self := Resource{OwnerID: 1, OwnerRole: RoleAdmin}
	if err := CanMutate(Principal{ID: 1, Role: RoleAdmin}, self, ActionChangeRole); !errors.Is(err, ErrForbidden) {
		t.Fatalf("self role change should fail, got %v", err)
	}

	adminTarget := Resource{OwnerID: 6, OwnerRole: RoleAdmin}
	if err := CanMutate(Principal{ID: 1, Role: RoleAdmin}, adminTarget, ActionChangeRole); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin targets are not editable, got %v", err)
	}
}
