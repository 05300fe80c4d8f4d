package models

// FAQ is one question/answer pair of the bot's knowledge base. Text is
// persisted verbatim, empty strings included.
type FAQ struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// BotConfig is the configuration singleton: one document in the botConfig
// collection, read by every widget session, mutated only by admins.
type BotConfig struct {
	BotName            string `bson:"bot_name" json:"bot_name"`
	BusinessName       string `bson:"business_name" json:"business_name"`
	BusinessBackground string `bson:"business_background" json:"business_background"`
	BotGoal            string `bson:"bot_goal" json:"bot_goal"`
	WelcomeMessage     string `bson:"welcome_message" json:"welcome_message"`
	FallbackResponse   string `bson:"fallback_response" json:"fallback_response"`
	FAQs               []FAQ  `bson:"faqs" json:"faqs"`
	ContactURL         string `bson:"contact_url" json:"contact_url"`
	SignUpURL          string `bson:"sign_up_url" json:"sign_up_url"`
	LogoURL            string `bson:"logo_url" json:"logo_url"`
	ProfilePhotoURL    string `bson:"profile_photo_url" json:"profile_photo_url"`
}

// DefaultBotConfig is written on first read when no settings document exists.
func DefaultBotConfig() *BotConfig {
	return &BotConfig{
		FAQs:             []FAQ{{Question: "", Answer: ""}},
		FallbackResponse: "Sorry, I'm having trouble responding right now. Please try again in a moment.",
		WelcomeMessage:   "Great! How can I help you today?",
	}
}

// PublicBotConfig is the widget-facing subset of the singleton. The system
// prompt inputs (background, goal, FAQs) stay server-side.
type PublicBotConfig struct {
	BotName         string `json:"bot_name"`
	BusinessName    string `json:"business_name"`
	WelcomeMessage  string `json:"welcome_message"`
	ContactURL      string `json:"contact_url"`
	SignUpURL       string `json:"sign_up_url"`
	LogoURL         string `json:"logo_url"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

func (c *BotConfig) Public() PublicBotConfig {
	return PublicBotConfig{
		BotName:         c.BotName,
		BusinessName:    c.BusinessName,
		WelcomeMessage:  c.WelcomeMessage,
		ContactURL:      c.ContactURL,
		SignUpURL:       c.SignUpURL,
		LogoURL:         c.LogoURL,
		ProfilePhotoURL: c.ProfilePhotoURL,
	}
}
