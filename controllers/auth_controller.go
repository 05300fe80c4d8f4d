package controllers

import (
	"net/http"

	"chatbot-backend/models"
	"chatbot-backend/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// adminSessionKey is the local authentication flag: the dashboard is gated
// by this cookie-session flag plus the JWT identity check.
const adminSessionKey = "admin_authenticated"

// Login handles dashboard authentication and returns a JWT token
func Login(c *gin.Context) {
	var credentials models.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := services.Authenticate(credentials.Username, credentials.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
		return
	}

	if err := services.TouchLastLogin(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update login record"})
		return
	}

	token, err := services.GenerateJWT(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Set the local auth flag alongside the token
	session := sessions.Default(c)
	session.Set(adminSessionKey, true)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"id":       user.ID,
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

// GetCurrentUser returns the currently logged-in user's info from JWT
func GetCurrentUser(c *gin.Context) {
	claims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userClaims := claims.(*models.Claims)

	c.JSON(http.StatusOK, gin.H{
		"id":       userClaims.ID,
		"username": userClaims.Username,
		"role":     userClaims.Role,
	})
}

// Logout clears the local auth flag; the JWT simply expires client-side
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(adminSessionKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Register handles adding a new dashboard account
func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if req.Role == "" {
		req.Role = "viewer"
	}

	createdUser, err := services.CreateUser(req.Username, req.Password, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := services.GenerateJWT(createdUser.ID, createdUser.Username, createdUser.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user": gin.H{
			"id":       createdUser.ID,
			"username": createdUser.Username,
			"role":     createdUser.Role,
		},
	})
}
