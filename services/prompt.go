package services

import (
	"fmt"
	"strings"

	"chatbot-backend/models"
)

// Scripted wizard lines. These are bot-authored but not generated: the
// wizard steps always say the same thing, only the completion step talks
// to the model.

const defaultWelcomeMessage = "Great! How can I help you today?"

const resumeMessage = "Welcome back! Continuing your conversation..."

const defaultFallbackResponse = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// MobilePrompt is the single message a freshly created conversation starts
// with, asking for the visitor's phone number.
func MobilePrompt(name string) string {
	return fmt.Sprintf("Thanks %s, one more thing, could you please pop in your mobile number? If we get disconnected I can quickly send you a link so we can pick up from where we left off.", name)
}

// WelcomeText returns the configured welcome message, or the stock line
// when the admin left it empty.
func WelcomeText(cfg *models.BotConfig) string {
	if cfg != nil && cfg.WelcomeMessage != "" {
		return cfg.WelcomeMessage
	}
	return defaultWelcomeMessage
}

// FallbackText returns the configured fallback response, or a stock line
// when no configuration is available at all.
func FallbackText(cfg *models.BotConfig) string {
	if cfg != nil && cfg.FallbackResponse != "" {
		return cfg.FallbackResponse
	}
	return defaultFallbackResponse
}

// BuildSystemPrompt concatenates the static instructions with the business
// background, FAQ pairs and goal text from the configuration singleton.
// One prompt per user message; the remote API keeps no context of ours.
func BuildSystemPrompt(cfg *models.BotConfig) string {
	faqPairs := make([]string, 0, len(cfg.FAQs))
	for _, faq := range cfg.FAQs {
		faqPairs = append(faqPairs, fmt.Sprintf("Q: %s\nA: %s", faq.Question, faq.Answer))
	}
	faqKnowledge := strings.Join(faqPairs, "\n\n")

	return fmt.Sprintf(`You are %s, an AI assistant for %s.

1. Response Strategy:
- CRITICAL: Limit ALL responses to 1-3 sentences maximum
- Never provide detailed explanations in a single message
- Always break information into smaller chunks
- Wait for user to request more information before continuing

2. Communication Guidelines:
- MUST keep responses under 30 words
- Use simple, everyday language
- If response would be longer than 30 words, stop and ask if user wants more details
- Never provide lists or bullet points in responses

3. Business Information:
%s

4. Key Knowledge Base:
%s

5. Core Objectives:
%s

6. Key Guidelines:
- Cannot process payments
- Cannot modify bookings
- Cannot access customer accounts

7. URL References:
- Never show the full URL in responses
- For the sign up URL, say "sign up here" with 'here' being the link
- For the contact URL, say "contact us here" with 'here' being the link

Remember to:
1. Keep responses short and focused
2. Never provide more than 2 sentences in a single response
3. Guide users towards signing up or contacting us after providing initial help
4. Maintain a friendly, conversational tone aligned with %s's values`,
		cfg.BotName, cfg.BusinessName, cfg.BusinessBackground, faqKnowledge, cfg.BotGoal, cfg.BusinessName)
}
