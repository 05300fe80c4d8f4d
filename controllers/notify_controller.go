package controllers

import (
	"net/http"

	"chatbot-backend/config"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// Notify is wired in main; nil when Pushover credentials are absent.
var Notify services.Notifier

type notifyRequest struct {
	Message string `json:"message" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

// NotifyHandler dispatches an admin push notification for a new chat.
func NotifyHandler(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if Notify == nil {
		config.Log.Error("Notification requested but Pushover is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}

	if err := Notify.NotifyNewChat(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		config.Log.Error("Pushover error: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send notification",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
