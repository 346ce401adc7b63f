package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

func profilePayload(p db.Profile) gin.H {
	return gin.H{
		"id":            p.ID,
		"username":      p.Username,
		"display_name":  p.DisplayName,
		"avatar_url":    p.AvatarURL,
		"bio":           p.Bio,
		"role":          p.Role,
		"suspended":     p.Suspended,
		"post_count":    p.PostCount,
		"like_count":    p.LikeCount,
		"view_count":    p.ViewCount,
		"comment_count": p.CommentCount,
		"created_at":    p.CreatedAt,
	}
}

func authorPayload(p db.Profile) gin.H {
	return gin.H{
		"id":           p.ID,
		"username":     p.Username,
		"display_name": p.DisplayName,
		"avatar_url":   p.AvatarURL,
		"role":         p.Role,
	}
}

func categoryPayload(cat db.Category) gin.H {
	return gin.H{
		"id":          cat.ID,
		"slug":        cat.Slug,
		"name":        cat.Name,
		"description": cat.Description,
		"post_count":  cat.PostCount,
	}
}

func postPayload(post db.Post) gin.H {
	payload := gin.H{
		"id":            post.ID,
		"title":         post.Title,
		"slug":          post.Slug,
		"excerpt":       post.Excerpt,
		"thumbnail_url": post.ThumbnailURL,
		"status":        post.Status,
		"featured":      post.Featured,
		"view_count":    post.ViewCount,
		"like_count":    post.LikeCount,
		"comment_count": post.CommentCount,
		"published_at":  post.PublishedAt,
		"created_at":    post.CreatedAt,
		"updated_at":    post.UpdatedAt,
		"author":        authorPayload(post.Author),
	}
	if post.Category != nil {
		payload["category"] = categoryPayload(*post.Category)
	}
	return payload
}

func postViewPayload(view service.PostView) gin.H {
	payload := postPayload(view.Post)
	payload["liked"] = view.Liked
	payload["bookmarked"] = view.Bookmarked
	return payload
}

func postListPayload(views []service.PostView) []gin.H {
	items := make([]gin.H, 0, len(views))
	for _, view := range views {
		items = append(items, postViewPayload(view))
	}
	return items
}

func postsPayload(posts []db.Post) []gin.H {
	items := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		items = append(items, postPayload(post))
	}
	return items
}

func flatCommentPayload(fc service.FlatComment) gin.H {
	payload := gin.H{
		"id":         fc.ID,
		"post_id":    fc.PostID,
		"parent_id":  fc.ParentID,
		"content":    fc.Content,
		"edited":     fc.Edited,
		"created_at": fc.CreatedAt,
		"author":     authorPayload(fc.Author),
		"is_reply":   fc.IsReply,
	}
	if fc.ReplyingTo != nil {
		payload["replying_to"] = gin.H{
			"id":           fc.ReplyingTo.ID,
			"username":     fc.ReplyingTo.Username,
			"display_name": fc.ReplyingTo.DisplayName,
		}
	}
	return payload
}

func notificationPayload(n db.Notification) gin.H {
	return gin.H{
		"id":         n.ID,
		"type":       n.Type,
		"title":      n.Title,
		"body":       n.Body,
		"link":       n.Link,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
}
