package router

import (
	"time"

	"github.com/clubhub-dev/clubhub/internal/handlers"
	"github.com/clubhub-dev/clubhub/internal/middleware"
	"github.com/clubhub-dev/clubhub/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:club_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", handlers.Signup)
			auth.POST("/signin", handlers.Signin)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.PATCH("/me", handlers.UpdateProfile)
			users.GET("/me/events", handlers.MyEvents)
			users.GET("/me/events/upcoming", handlers.MyUpcomingEvents)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.GET("/settings", handlers.GetNotificationSettings)
			notifications.PUT("/settings", handlers.UpdateNotificationSettings)
		}

		push := api.Group("/push", middleware.AuthMiddleware())
		{
			push.POST("/register", handlers.RegisterDeviceToken)
			push.POST("/unregister", handlers.UnregisterDeviceToken)
		}

		clubs := api.Group("/clubs", middleware.AuthMiddleware())
		{
			clubs.GET("", handlers.ListClubs)
			clubs.GET("/myclubs", handlers.MyClubs)
			clubs.GET("/:club_id", handlers.GetClub)
			clubs.GET("/:club_id/dashboard", handlers.GetClubDashboard)
			clubs.GET("/:club_id/membership", handlers.GetMembershipStatus)
			clubs.POST("/:club_id/join", handlers.JoinClub)
			clubs.DELETE("/:club_id/leave", handlers.LeaveClub)

			// Member management
			clubs.GET("/:club_id/members", handlers.ListMembers)
			clubs.POST("/:club_id/members", handlers.AddMember)
			clubs.PATCH("/:club_id/members/:membership_id", handlers.UpdateMemberRole)
			clubs.DELETE("/:club_id/members/:membership_id", handlers.RemoveMember)

			// Join requests
			clubs.GET("/:club_id/requests", handlers.ListRequests)
			clubs.POST("/:club_id/requests/:request_id/accept", handlers.AcceptRequest)
			clubs.POST("/:club_id/requests/:request_id/reject", handlers.RejectRequest)

			// Events
			clubs.GET("/:club_id/events", handlers.ListClubEvents)
			clubs.POST("/:club_id/events", handlers.CreateEvent)
			clubs.DELETE("/:club_id/events/:event_id", handlers.DeleteEvent)
			clubs.POST("/:club_id/events/:event_id/register", handlers.RegisterForEvent)
			clubs.GET("/:club_id/events/:event_id/registration", handlers.CheckRegistration)

			// Finance
			clubs.GET("/:club_id/finance", handlers.ListFinance)
			clubs.POST("/:club_id/finance", handlers.AddFinanceRecord)

			// Announcements
			clubs.POST("/:club_id/notifications", handlers.CreateAnnouncement)
			clubs.GET("/:club_id/notifications/latest", handlers.LatestClubNotifications)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware())
		{
			admin.GET("/stats", handlers.AdminStats)
			admin.GET("/users", handlers.ListUsers)
			admin.DELETE("/users/:user_id", handlers.DeleteUser)
			admin.POST("/clubs", handlers.CreateClub)
			admin.POST("/clubs/:club_id/approve", handlers.ApproveClub)
			admin.POST("/clubs/:club_id/reject", handlers.RejectClub)
			admin.DELETE("/clubs/:club_id", handlers.DeleteClub)
		}
	}

	return r
}
