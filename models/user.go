package models

import "time"

// Credentials structure for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// User is a dashboard account. Widget visitors are not users; they only
// exist as user_details on their conversation document.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"-"` // Stored as a bcrypt hash
	Role      string     `json:"role"` // admin or viewer
	LastLogin *time.Time `json:"last_login,omitempty"`
}
