package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's newest notifications and the
// unread badge count.
func (a *API) ListNotifications(c *gin.Context) {
	p := principalFrom(c)

	notifications, err := a.notifications.List(p, 10)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread, err := a.notifications.UnreadCount(p)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationPayload(n))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

// MarkNotificationRead flags one notification as read.
func (a *API) MarkNotificationRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.notifications.MarkRead(principalFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

// MarkAllNotificationsRead clears the unread badge.
func (a *API) MarkAllNotificationsRead(c *gin.Context) {
	if err := a.notifications.MarkAllRead(principalFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all marked read"})
}
