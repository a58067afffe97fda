package routes

import (
	"conference-management-api/config"
	"conference-management-api/controllers"
	"conference-management-api/middleware"
	"conference-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(router *gin.Engine, cache *redis.Client) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Conference listing is public and cacheable
			public.GET("/conferences", middleware.CacheResponse(cache, config.CacheTTL()), controllers.GetConferences)
			public.GET("/conferences/:id", controllers.GetConference)

			// Announcements
			public.GET("/posts", controllers.GetPosts)
			public.GET("/posts/:id", controllers.GetPost)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Papers (authors)
			papers := protected.Group("/papers")
			{
				papers.GET("", controllers.GetMyPapers)
				papers.GET("/:id", controllers.GetPaper)
				papers.POST("/submit", middleware.RequireRole(models.RoleAuthor), controllers.SubmitPaper)
				papers.POST("/resubmit", middleware.RequireRole(models.RoleAuthor), controllers.ResubmitPaper)
			}
			protected.GET("/dashboard/author", middleware.RequireRole(models.RoleAuthor), controllers.GetAuthorDashboard)

			// Reviewer workflow
			reviewer := protected.Group("/reviewer", middleware.RequireRole(models.RoleReviewer))
			{
				reviewer.GET("/papers", controllers.GetAssignedPapers)
				reviewer.POST("/submit-review", controllers.SubmitReview)
				reviewer.GET("/dashboard", controllers.GetReviewerDashboard)
			}

			// Admin workflow
			admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				admin.POST("/conferences", controllers.CreateConference)
				admin.GET("/papers", controllers.AdminListPapers)
				admin.GET("/papers/:id/reviews", controllers.GetPaperReviews)
				admin.POST("/papers/:id/reviewers", controllers.AssignReviewer)
				admin.DELETE("/papers/:id/reviewers/:reviewerId", controllers.RemoveReviewer)
				admin.POST("/papers/:id/decision", controllers.ApplyPaperDecision)
				admin.POST("/reviews/:id/verdict", controllers.ApplyVerdict)
				admin.GET("/reviewers", controllers.GetReviewers)
				admin.GET("/dashboard", controllers.GetAdminDashboard)
				admin.POST("/posts", controllers.CreatePost)
			}
		}
	}
}
