package auth

import "errors"

var (
	// ErrUnauthorized means the request has no authenticated principal.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the principal lacks the role or ownership the
	// action requires.
	ErrForbidden = errors.New("forbidden")
)

// Action identifies a guarded mutation.
type Action int

const (
	ActionCreatePost Action = iota
	ActionEditPost
	ActionDeletePost
	ActionChangePostStatus
	ActionFeaturePost
	ActionCreateComment
	ActionEditComment
	ActionDeleteComment
	ActionChangeRole
	ActionSuspendUser
)

// Resource carries the ownership facts CanMutate needs about the
// record being mutated. OwnerRole is only consulted for role and
// suspension changes, where the target is itself a profile.
type Resource struct {
	OwnerID   uint
	OwnerRole string
}

// CanMutate is the single authorization predicate consulted before
// every write. It returns nil when the action is allowed,
// ErrUnauthorized when no principal is present, and ErrForbidden
// otherwise.
func CanMutate(p Principal, res Resource, action Action) error {
	if !p.IsAuthenticated() {
		return ErrUnauthorized
	}

	switch action {
	case ActionCreatePost:
		if p.Suspended || !p.HasRole(RoleContributor) {
			return ErrForbidden
		}
	case ActionCreateComment:
		if p.Suspended {
			return ErrForbidden
		}
	case ActionEditPost, ActionEditComment:
		// Ownership only. Staff moderate through status changes and
		// deletes, never by rewriting someone else's words.
		if p.ID != res.OwnerID {
			return ErrForbidden
		}
	case ActionDeletePost, ActionDeleteComment:
		if p.ID != res.OwnerID && !p.IsStaff() {
			return ErrForbidden
		}
	case ActionChangePostStatus:
		if !p.IsStaff() {
			return ErrForbidden
		}
	case ActionFeaturePost:
		if p.Role != RoleAdmin {
			return ErrForbidden
		}
	case ActionChangeRole, ActionSuspendUser:
		if p.Role != RoleAdmin {
			return ErrForbidden
		}
		if p.ID == res.OwnerID {
			return ErrForbidden
		}
		if res.OwnerRole == RoleAdmin {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	return nil
}
