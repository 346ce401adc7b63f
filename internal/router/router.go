package router

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/handler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the Gin engine and all routes.
func Setup(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inkwell_session", store))
	r.Use(api.LoadPrincipal())

	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public pages. The principal, when present, only enriches the
	// payload with like/bookmark state.
	r.GET("/", api.Home)
	r.GET("/post/:slug", api.GetPost)
	r.GET("/posts", api.ListPosts)
	r.GET("/posts/:id/comments", api.GetComments)
	r.GET("/search", api.SearchPosts)
	r.GET("/categories", api.ListCategories)
	r.GET("/categories/:slug", api.GetCategory)
	r.GET("/profile/:username", api.GetProfile)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", api.Register)
		authRoutes.POST("/login", api.Login)
		authRoutes.POST("/logout", api.Logout)
		authRoutes.GET("/me", api.Me)
	}

	r.GET("/dashboard", handler.AuthRequired(), api.Dashboard)

	// Authenticated JSON API. Fine-grained ownership and role checks
	// live in the authorization guard behind each service call.
	apiRoutes := r.Group("/api")
	apiRoutes.Use(handler.AuthRequired())
	{
		apiRoutes.POST("/posts", api.CreatePost)
		apiRoutes.PUT("/posts/:id", api.UpdatePost)
		apiRoutes.DELETE("/posts/:id", api.DeletePost)
		apiRoutes.POST("/posts/:id/like", api.ToggleLike)
		apiRoutes.POST("/posts/:id/bookmark", api.ToggleBookmark)
		apiRoutes.GET("/bookmarks", api.ListBookmarks)

		apiRoutes.POST("/comments", api.CreateComment)
		apiRoutes.PUT("/comments/:id", api.EditComment)
		apiRoutes.DELETE("/comments/:id", api.DeleteComment)

		apiRoutes.PUT("/profile", api.UpdateProfile)

		apiRoutes.GET("/notifications", api.ListNotifications)
		apiRoutes.POST("/notifications/:id/read", api.MarkNotificationRead)
		apiRoutes.POST("/notifications/read-all", api.MarkAllNotificationsRead)

		apiRoutes.POST("/upload", api.UploadImage)
	}

	// Moderation: staff may change any post's status or delete any
	// post; the remaining admin surface is admin-only.
	adminRoutes := r.Group("/admin")
	adminRoutes.Use(handler.StaffRequired())
	{
		adminRoutes.GET("/posts", api.AdminListPosts)
		adminRoutes.PUT("/posts/:id/status", api.SetPostStatus)

		adminOnly := adminRoutes.Group("")
		adminOnly.Use(handler.AdminRequired())
		{
			adminOnly.GET("", api.AdminStats)
			adminOnly.GET("/users", api.AdminListUsers)
			adminOnly.PUT("/users/:id/role", api.AdminChangeRole)
			adminOnly.PUT("/users/:id/suspend", api.AdminSetSuspended)
			adminOnly.PUT("/posts/:id/featured", api.SetPostFeatured)
			adminOnly.POST("/categories", api.CreateCategory)
			adminOnly.POST("/reconcile", api.AdminReconcileCounters)
		}
	}

	return r
}

// requestLogger logs every request through zerolog, classed by status.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
