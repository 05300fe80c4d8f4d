package routes

import (
	"chatbot-backend/controllers"
	"chatbot-backend/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all application routes
func SetupRoutes(r *gin.Engine) {

	// Embeddable widget script
	r.GET("/widget.js", controllers.WidgetScriptHandler)

	// Widget session lifecycle (no auth; one browser tab owns one session)
	api := r.Group("/api")
	{
		api.GET("/config", controllers.GetPublicConfigHandler)

		api.POST("/session/start", controllers.StartSessionHandler)
		api.POST("/session/mobile", controllers.SubmitMobileHandler)
		api.POST("/session/message", controllers.SendMessageHandler)
		api.POST("/session/rating", controllers.SubmitRatingHandler)
		api.GET("/session/resume", controllers.ResumeSessionHandler)

		// Internal completion and notification boundaries
		api.POST("/chat", controllers.CompletionHandler)
		api.POST("/notify", controllers.NotifyHandler)
	}

	// Dashboard authentication
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", controllers.Login)
		authGroup.POST("/logout", middleware.JWTAuthMiddleware(), controllers.Logout)
		authGroup.POST("/register", controllers.Register)
		authGroup.GET("/current", middleware.JWTAuthMiddleware(), controllers.GetCurrentUser)
	}

	// Admin dashboard: local session flag + JWT + admin role
	admin := r.Group("/admin",
		middleware.AdminSessionMiddleware(),
		middleware.JWTAuthMiddleware(),
		controllers.AdminOnly(),
	)
	{
		admin.GET("/chats", controllers.ListChatsHandler)
		admin.GET("/chats/:chatID", controllers.GetChatDetailHandler)
		admin.GET("/metrics", controllers.GetChatMetricsHandler)

		admin.GET("/config", controllers.GetBotConfigHandler)
		admin.PUT("/config", controllers.UpdateBotConfigHandler)
		admin.POST("/config/assets/:kind", controllers.UploadAssetHandler)
	}
}
