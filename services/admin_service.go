package services

import (
	"time"

	"chatbot-backend/models"
)

// ConversationSummary is the dashboard list row: enough to scan the
// history without shipping whole message arrays.
type ConversationSummary struct {
	ChatID       string     `json:"chat_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Status       string     `json:"status"`
	MessageCount int        `json:"message_count"`
	Rating       *int       `json:"rating,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUpdated  time.Time  `json:"last_updated"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

// Summarize flattens conversations into dashboard list rows, preserving
// the repo's ordering (last_updated desc).
func Summarize(convos []models.Conversation) []ConversationSummary {
	summaries := make([]ConversationSummary, 0, len(convos))
	for _, convo := range convos {
		summaries = append(summaries, ConversationSummary{
			ChatID:       convo.ChatID,
			Name:         convo.UserDetails.Name,
			Email:        convo.UserDetails.Email,
			Status:       convo.Status,
			MessageCount: len(convo.Messages),
			Rating:       convo.Rating,
			CreatedAt:    convo.CreatedAt,
			LastUpdated:  convo.LastUpdated,
			ClosedAt:     convo.ClosedAt,
		})
	}
	return summaries
}
