package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatbot-backend/config"
	"chatbot-backend/models"

	"github.com/google/uuid"
)

var ErrWrongStep = errors.New("operation not allowed in the current step")

// SessionService drives the widget session lifecycle: the initial -> mobile
// -> chat wizard, the message exchange and the closing rating prompt.
type SessionService struct {
	Store      SessionStore
	Chats      ChatRepo
	Config     ConfigRepo
	Completion *CompletionService
	Notifier   Notifier // optional

	// Now is swappable for tests.
	Now func() time.Time
}

func NewSessionService(store SessionStore, chats ChatRepo, cfg ConfigRepo, completion *CompletionService, notifier Notifier) *SessionService {
	return &SessionService{
		Store:      store,
		Chats:      chats,
		Config:     cfg,
		Completion: completion,
		Notifier:   notifier,
		Now:        time.Now,
	}
}

// load fetches a session and enforces the TTL policy explicitly: entries
// past the window are discarded even if the store has not expired them yet.
func (s *SessionService) load(ctx context.Context, sessionID string) (*models.WidgetSession, error) {
	sess, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.Now(), SessionTTL) {
		if err := s.Store.Delete(ctx, sessionID); err != nil {
			config.Log.Warn("Failed to delete expired session: ", err)
		}
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Start handles the initial form: name + email in, one new conversation
// document holding exactly one bot-authored message out. The session
// advances initial -> mobile.
func (s *SessionService) Start(ctx context.Context, req *models.StartSessionRequest) (*models.StartSessionResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}

	visitorID := req.VisitorID
	if visitorID == "" {
		visitorID = uuid.NewString()
	}

	now := s.Now()
	prompt := models.ChatMessage{
		Text:      MobilePrompt(req.Name),
		IsUser:    false,
		Timestamp: now,
	}

	convo := &models.Conversation{
		ChatID: uuid.NewString(),
		UserDetails: models.UserDetails{
			Name:  req.Name,
			Email: req.Email,
		},
		Messages:    []models.ChatMessage{prompt},
		Status:      models.ChatStatusActive,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.Chats.Create(ctx, convo); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	step, err := models.StepInitial.AdvanceTo(models.StepMobile)
	if err != nil {
		return nil, err
	}

	sess := &models.WidgetSession{
		SessionID:    uuid.NewString(),
		VisitorID:    visitorID,
		ChatID:       convo.ChatID,
		Step:         step,
		UserDetails:  convo.UserDetails,
		LastActivity: now,
	}
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	hasRated, err := s.Store.HasRated(ctx, visitorID)
	if err != nil {
		config.Log.Warn("Failed to read rated flag: ", err)
	}

	return &models.StartSessionResponse{
		SessionID: sess.SessionID,
		VisitorID: visitorID,
		ChatID:    convo.ChatID,
		Message:   prompt.Text,
		HasRated:  hasRated,
	}, nil
}

// SubmitMobile handles the mobile form: records the number on the existing
// conversation and appends exactly one welcome message. The session
// advances mobile -> chat.
func (s *SessionService) SubmitMobile(ctx context.Context, sessionID, mobile string) (string, error) {
	if mobile == "" {
		return "", errors.New("mobile number is required")
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	step, err := sess.Step.AdvanceTo(models.StepChat)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrongStep, err)
	}

	cfg, err := s.Config.Load(ctx)
	if err != nil {
		config.Log.Error("Failed to load bot configuration: ", err)
		cfg = nil // WelcomeText falls back to the stock line
	}

	welcome := models.ChatMessage{
		Text:      WelcomeText(cfg),
		IsUser:    false,
		Timestamp: s.Now(),
	}
	if err := s.Chats.SetMobile(ctx, sess.ChatID, mobile, welcome); err != nil {
		return "", fmt.Errorf("failed to update conversation: %w", err)
	}

	sess.Step = step
	sess.UserDetails.Mobile = mobile
	sess.Touch(s.Now())
	if err := s.Store.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	return welcome.Text, nil
}

// SendMessage appends the user's message, asks the completion service for
// a reply (fallback text on any completion failure) and appends that too.
// Overlapping sends for one session are rejected.
func (s *SessionService) SendMessage(ctx context.Context, sessionID, text string) (string, error) {
	if text == "" {
		return "", errors.New("message is required")
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.Step != models.StepChat {
		return "", ErrWrongStep
	}

	if err := s.Store.BeginSend(ctx, sessionID); err != nil {
		return "", err
	}
	defer func() {
		if err := s.Store.EndSend(ctx, sessionID); err != nil {
			config.Log.Warn("Failed to clear in-flight marker: ", err)
		}
	}()

	now := s.Now()
	userMsg := models.ChatMessage{Text: text, IsUser: true, Timestamp: now}
	if err := s.Chats.AppendMessage(ctx, sess.ChatID, userMsg); err != nil {
		return "", fmt.Errorf("failed to persist message: %w", err)
	}

	if !sess.Notified {
		s.notifyNewChat(sess, text)
		sess.Notified = true
	}

	cfg, err := s.Config.Load(ctx)
	if err != nil {
		config.Log.Error("Failed to load bot configuration: ", err)
		cfg = nil
	}

	var reply string
	if cfg == nil {
		reply = FallbackText(nil)
	} else {
		reply = s.Completion.Reply(ctx, cfg, text)
	}

	botMsg := models.ChatMessage{Text: reply, IsUser: false, Timestamp: s.Now()}
	if err := s.Chats.AppendMessage(ctx, sess.ChatID, botMsg); err != nil {
		return "", fmt.Errorf("failed to persist reply: %w", err)
	}

	sess.Touch(s.Now())
	if err := s.Store.Save(ctx, sess); err != nil {
		config.Log.Warn("Failed to refresh session: ", err)
	}

	return reply, nil
}

// SubmitRating closes the session: writes the one-and-only rating pair to
// the conversation and flags the visitor so later sessions only get a
// dismiss prompt.
func (s *SessionService) SubmitRating(ctx context.Context, sessionID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.Chats.SubmitRating(ctx, sess.ChatID, rating, feedback); err != nil {
		return err
	}

	if err := s.Store.MarkRated(ctx, sess.VisitorID); err != nil {
		config.Log.Warn("Failed to set rated flag: ", err)
	}

	// The session is done; drop it so a reload starts fresh.
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		config.Log.Warn("Failed to delete session after rating: ", err)
	}

	return nil
}

// Resume restores a session inside the 30 minute window. Only sessions
// that made it to the chat step resume; everything else starts the wizard
// over.
func (s *SessionService) Resume(ctx context.Context, sessionID string) (*models.ResumeSessionResponse, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != models.StepChat {
		return nil, ErrSessionNotFound
	}

	sess.Touch(s.Now())
	if err := s.Store.Save(ctx, sess); err != nil {
		config.Log.Warn("Failed to refresh session: ", err)
	}

	hasRated, err := s.Store.HasRated(ctx, sess.VisitorID)
	if err != nil {
		config.Log.Warn("Failed to read rated flag: ", err)
	}

	return &models.ResumeSessionResponse{
		SessionID:   sess.SessionID,
		ChatID:      sess.ChatID,
		Step:        string(sess.Step),
		UserDetails: sess.UserDetails,
		HasRated:    hasRated,
		Message:     resumeMessage,
	}, nil
}

// notifyNewChat fires the admin push notification for the first real user
// message of a conversation. Failures are logged, never surfaced.
func (s *SessionService) notifyNewChat(sess *models.WidgetSession, message string) {
	if s.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Notifier.NotifyNewChat(ctx, sess.UserDetails.Name, sess.UserDetails.Email, message); err != nil {
			config.Log.Error("Failed to dispatch chat notification: ", err)
		}
	}()
}
