package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==== Section: Widget API Request & Response ====

type StartSessionRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	VisitorID string `json:"visitor_id"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	VisitorID string `json:"visitor_id"`
	ChatID    string `json:"chat_id"`
	Message   string `json:"message"`
	HasRated  bool   `json:"has_rated"`
}

type SubmitMobileRequest struct {
	Mobile string `json:"mobile" binding:"required"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type SendMessageResponse struct {
	Message string `json:"message"`
}

type SubmitRatingRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

type ResumeSessionResponse struct {
	SessionID   string      `json:"session_id"`
	ChatID      string      `json:"chat_id"`
	Step        string      `json:"step"`
	UserDetails UserDetails `json:"user_details"`
	HasRated    bool        `json:"has_rated"`
	Message     string      `json:"message"`
}

// ==== Section: MongoDB Conversation ====

type UserDetails struct {
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Mobile string `bson:"mobile" json:"mobile"`
}

type ChatMessage struct {
	Text      string    `bson:"text" json:"text"`
	IsUser    bool      `bson:"is_user" json:"is_user"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

const (
	ChatStatusActive = "active"
	ChatStatusClosed = "closed"
)

// Conversation is the persisted record of one widget chat session.
// Messages are append-only; rating/feedback are written at most once,
// at session close.
type Conversation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ChatID      string             `bson:"chat_id" json:"chat_id"`
	UserDetails UserDetails        `bson:"user_details" json:"user_details"`
	Messages    []ChatMessage      `bson:"messages" json:"messages"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	LastUpdated time.Time          `bson:"last_updated" json:"last_updated"`
	ClosedAt    *time.Time         `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
	Rating      *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	Feedback    string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
}
