package auth

// Roles ordered by increasing publishing and moderation privilege.
const (
	RoleUser        = "user"
	RoleContributor = "contributor"
	RoleAuthor      = "author"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

var roleRank = map[string]int{
	RoleUser:        0,
	RoleContributor: 1,
	RoleAuthor:      2,
	RoleModerator:   3,
	RoleAdmin:       4,
}

// Principal is the authenticated actor behind a request. A zero ID
// means the request is anonymous.
type Principal struct {
	ID        uint
	Username  string
	Role      string
	Suspended bool
}

// IsAuthenticated reports whether the principal carries an identity.
func (p Principal) IsAuthenticated() bool {
	return p.ID != 0
}

// IsStaff reports whether the principal may moderate content.
func (p Principal) IsStaff() bool {
	return p.Role == RoleModerator || p.Role == RoleAdmin
}

// HasRole reports whether the principal's role ranks at or above min.
// Unknown roles rank below user.
func (p Principal) HasRole(min string) bool {
	rank, ok := roleRank[p.Role]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// ValidRole reports whether role is one of the five known roles.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}
