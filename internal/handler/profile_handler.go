package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// GetProfile serves the public profile page: the profile plus its
// published posts.
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.GetByUsername(c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	posts, err := a.posts.ListByAuthor(profile.ID, service.StatusPublished)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profilePayload(*profile),
		"posts":   postsPayload(posts),
	})
}

type profileUpdateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
}

// UpdateProfile edits the caller's own profile.
func (a *API) UpdateProfile(c *gin.Context) {
	var payload profileUpdateRequest
	if !bindJSON(c, &payload, "invalid profile fields") {
		return
	}

	profile, err := a.profiles.Update(principalFrom(c), service.ProfileInput{
		DisplayName: payload.DisplayName,
		Bio:         payload.Bio,
		AvatarURL:   payload.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profilePayload(*profile)})
}

// Dashboard assembles the signed-in user's workspace: their posts
// (optionally filtered by status), authoritative stats and recent
// notifications.
func (a *API) Dashboard(c *gin.Context) {
	p := principalFrom(c)

	status := c.Query("status")
	if status != "" && !service.ValidStatus(status) {
		respondError(c, http.StatusBadRequest, "unknown status filter")
		return
	}

	posts, err := a.posts.ListByAuthor(p.ID, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats, err := a.profiles.Stats(p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notifications, err := a.notifications.List(p, 10)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	items := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationPayload(n))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": postsPayload(posts),
		"stats": gin.H{
			"total_posts":     stats.TotalPosts,
			"published_posts": stats.PublishedPosts,
			"draft_posts":     stats.DraftPosts,
			"total_views":     stats.TotalViews,
			"total_likes":     stats.TotalLikes,
			"total_comments":  stats.TotalComments,
		},
		"notifications": items,
	})
}
