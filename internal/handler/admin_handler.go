package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminStats serves the headline counts for the admin page.
func (a *API) AdminStats(c *gin.Context) {
	stats, err := a.admin.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": gin.H{
		"total_users":      stats.TotalUsers,
		"total_posts":      stats.TotalPosts,
		"published_posts":  stats.PublishedPosts,
		"total_comments":   stats.TotalComments,
		"total_categories": stats.TotalCategories,
	}})
}

// AdminListUsers returns every profile for the users table.
func (a *API) AdminListUsers(c *gin.Context) {
	profiles, err := a.profiles.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, profilePayload(profile))
	}
	c.JSON(http.StatusOK, gin.H{"users": items})
}

// AdminListPosts returns posts of every status for moderation.
func (a *API) AdminListPosts(c *gin.Context) {
	posts, err := a.posts.ListForModeration()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": postsPayload(posts)})
}

type roleRequest struct {
	Role string `json:"role"`
}

// AdminChangeRole sets another user's role. The guard refuses
// self-changes and admin targets; the route group already refuses
// non-admin callers.
func (a *API) AdminChangeRole(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload roleRequest
	if !bindJSON(c, &payload, "role is required") {
		return
	}

	profile, err := a.profiles.ChangeRole(principalFrom(c), id, payload.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(*profile)})
}

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

// AdminSetSuspended flips another user's suspension flag.
func (a *API) AdminSetSuspended(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload suspendRequest
	if !bindJSON(c, &payload, "suspended flag is required") {
		return
	}

	profile, err := a.profiles.SetSuspended(principalFrom(c), id, payload.Suspended)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(*profile)})
}

// AdminReconcileCounters rebuilds the denormalized counters from
// authoritative rows.
func (a *API) AdminReconcileCounters(c *gin.Context) {
	if err := a.admin.ReconcileCounters(); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "counters reconciled"})
}
