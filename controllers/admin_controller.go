package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"chatbot-backend/config"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// Chats is wired in main.
var Chats services.ChatRepo

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ListChatsHandler returns conversation summaries, newest activity first.
// Optional filters: ?status=active|closed and ?limit= (default 50).
func ListChatsHandler(c *gin.Context) {
	status := c.Query("status")

	limit := int64(50)
	if l := c.Query("limit"); l != "" {
		var tmp int
		if _, err := fmt.Sscan(l, &tmp); err == nil && tmp > 0 {
			limit = int64(tmp)
		}
	}

	convos, err := Chats.List(c.Request.Context(), status, limit)
	if err != nil {
		config.Log.Error("Error retrieving conversations: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": services.Summarize(convos)})
}

// GetChatDetailHandler returns one full conversation document.
func GetChatDetailHandler(c *gin.Context) {
	chatID := c.Param("chatID")

	convo, err := Chats.GetByChatID(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		config.Log.Error("Error retrieving conversation: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	c.JSON(http.StatusOK, convo)
}

// GetChatMetricsHandler returns dashboard aggregates.
func GetChatMetricsHandler(c *gin.Context) {
	metrics, err := Chats.Metrics(c.Request.Context())
	if err != nil {
		config.Log.Error("Error aggregating chat metrics: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, metrics)
}
