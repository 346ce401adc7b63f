package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
)

const (
	sessionUserKey = "user_id"
	principalKey   = "__principal"
)

// LoadPrincipal resolves the session into a Principal for the rest of
// the request. The session stores only the id; role and suspension are
// re-read from the profile row so changes apply on the next request.
func (a *API) LoadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(sessionUserKey)
		if id, ok := raw.(uint); ok {
			if profile, err := a.profiles.GetByID(id); err == nil {
				c.Set(principalKey, auth.Principal{
					ID:        profile.ID,
					Username:  profile.Username,
					Role:      profile.Role,
					Suspended: profile.Suspended,
				})
			}
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) auth.Principal {
	if cached, exists := c.Get(principalKey); exists {
		if p, ok := cached.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}

// AuthRequired rejects anonymous requests.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAuthenticated() {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired rejects requests from principals below moderator.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		if !p.IsAuthenticated() {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !p.IsStaff() {
			respondError(c, http.StatusForbidden, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired rejects everyone but admins.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		if !p.IsAuthenticated() {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if p.Role != auth.RoleAdmin {
			respondError(c, http.StatusForbidden, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
