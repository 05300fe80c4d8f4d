package controllers

import (
	"errors"
	"net/http"

	"chatbot-backend/config"
	"chatbot-backend/models"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// Sessions is wired in main before the router starts serving.
var Sessions *services.SessionService

const sessionHeader = "X-Session-ID"

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID header missing"})
		return "", false
	}
	return id, true
}

// StartSessionHandler handles the initial form submit: creates the
// conversation document and a fresh widget session.
func StartSessionHandler(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
		return
	}

	resp, err := Sessions.Start(c.Request.Context(), &req)
	if err != nil {
		config.Log.Error("Failed to start session: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error starting the chat. Please try again."})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitMobileHandler handles the mobile form submit.
func SubmitMobileHandler(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SubmitMobileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter your mobile number"})
		return
	}

	welcome, err := Sessions.SubmitMobile(c.Request.Context(), id, req.Mobile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session expired, please start again"})
		case errors.Is(err, services.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			config.Log.Error("Failed to submit mobile: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error starting the chat. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, models.SendMessageResponse{Message: welcome})
}

// SendMessageHandler handles one chat message exchange.
func SendMessageHandler(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := Sessions.SendMessage(c.Request.Context(), id, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session expired, please start again"})
		case errors.Is(err, services.ErrSendInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			config.Log.Error("Failed to send message: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save your message. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, models.SendMessageResponse{Message: reply})
}

// SubmitRatingHandler handles the closing rating prompt.
func SubmitRatingHandler(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	err := Sessions.SubmitRating(c.Request.Context(), id, req.Rating, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session expired"})
		case errors.Is(err, services.ErrAlreadyRated):
			c.JSON(http.StatusConflict, gin.H{"error": "This conversation has already been rated"})
		default:
			config.Log.Error("Failed to save rating: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save your feedback. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for your feedback!"})
}

// ResumeSessionHandler restores a session inside the resumption window.
func ResumeSessionHandler(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	resp, err := Sessions.Resume(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No resumable session"})
			return
		}
		config.Log.Error("Failed to resume session: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not resume the session"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
