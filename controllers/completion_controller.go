package controllers

import (
	"errors"
	"net/http"

	"chatbot-backend/config"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// Completion and BotConfig are wired in main.
var (
	Completion *services.CompletionService
	BotConfig  services.ConfigRepo
)

type completionRequest struct {
	Message string `json:"message" binding:"required"`
}

// CompletionHandler is the internal completion endpoint: one request per
// user message, 404 when the configuration singleton is missing, 500 on
// upstream failure.
func CompletionHandler(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cfg, err := BotConfig.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrConfigNotFound) {
			config.Log.Error("Bot config not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Bot configuration not found"})
			return
		}
		config.Log.Error("Failed to load bot config: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	message, err := Completion.Generate(c.Request.Context(), cfg, req.Message)
	if err != nil {
		config.Log.Error("Chat API error: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
