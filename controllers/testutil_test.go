package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"chatbot-backend/models"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// In-memory doubles for the repos and stores the handlers sit on.

type memChatRepo struct {
	convos map[string]*models.Conversation
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{convos: make(map[string]*models.Conversation)}
}

func (r *memChatRepo) Create(ctx context.Context, convo *models.Conversation) error {
	r.convos[convo.ChatID] = convo
	return nil
}

func (r *memChatRepo) AppendMessage(ctx context.Context, chatID string, msg models.ChatMessage) error {
	convo, ok := r.convos[chatID]
	if !ok {
		return services.ErrChatNotFound
	}
	convo.Messages = append(convo.Messages, msg)
	return nil
}

func (r *memChatRepo) SetMobile(ctx context.Context, chatID, mobile string, welcome models.ChatMessage) error {
	convo, ok := r.convos[chatID]
	if !ok {
		return services.ErrChatNotFound
	}
	convo.UserDetails.Mobile = mobile
	convo.Messages = append(convo.Messages, welcome)
	return nil
}

func (r *memChatRepo) SubmitRating(ctx context.Context, chatID string, rating int, feedback string) error {
	convo, ok := r.convos[chatID]
	if !ok {
		return services.ErrChatNotFound
	}
	if convo.Rating != nil {
		return services.ErrAlreadyRated
	}
	convo.Rating = &rating
	convo.Feedback = feedback
	convo.Status = models.ChatStatusClosed
	return nil
}

func (r *memChatRepo) GetByChatID(ctx context.Context, chatID string) (*models.Conversation, error) {
	convo, ok := r.convos[chatID]
	if !ok {
		return nil, services.ErrChatNotFound
	}
	return convo, nil
}

func (r *memChatRepo) List(ctx context.Context, status string, limit int64) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, convo := range r.convos {
		if status == "" || convo.Status == status {
			out = append(out, *convo)
		}
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memChatRepo) Metrics(ctx context.Context) (*services.ChatMetrics, error) {
	m := &services.ChatMetrics{TotalConversations: int64(len(r.convos))}
	for _, convo := range r.convos {
		m.TotalMessages += int64(len(convo.Messages))
		if convo.Rating != nil {
			m.RatingsSubmitted++
		}
	}
	return m, nil
}

type memSessionStore struct {
	sessions map[string]*models.WidgetSession
	rated    map[string]bool
	inflight map[string]bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		sessions: make(map[string]*models.WidgetSession),
		rated:    make(map[string]bool),
		inflight: make(map[string]bool),
	}
}

func (s *memSessionStore) Get(ctx context.Context, sessionID string) (*models.WidgetSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *memSessionStore) Save(ctx context.Context, sess *models.WidgetSession) error {
	copied := *sess
	s.sessions[sess.SessionID] = &copied
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *memSessionStore) MarkRated(ctx context.Context, visitorID string) error {
	s.rated[visitorID] = true
	return nil
}

func (s *memSessionStore) HasRated(ctx context.Context, visitorID string) (bool, error) {
	return s.rated[visitorID], nil
}

func (s *memSessionStore) BeginSend(ctx context.Context, sessionID string) error {
	if s.inflight[sessionID] {
		return services.ErrSendInFlight
	}
	s.inflight[sessionID] = true
	return nil
}

func (s *memSessionStore) EndSend(ctx context.Context, sessionID string) error {
	delete(s.inflight, sessionID)
	return nil
}

type memConfigRepo struct {
	cfg *models.BotConfig
}

func (r *memConfigRepo) Get(ctx context.Context) (*models.BotConfig, error) {
	if r.cfg == nil {
		return nil, services.ErrConfigNotFound
	}
	return r.cfg, nil
}

func (r *memConfigRepo) Load(ctx context.Context) (*models.BotConfig, error) {
	if r.cfg == nil {
		r.cfg = models.DefaultBotConfig()
	}
	return r.cfg, nil
}

func (r *memConfigRepo) Save(ctx context.Context, cfg *models.BotConfig) error {
	r.cfg = cfg
	return nil
}

func (r *memConfigRepo) SetAssetURL(ctx context.Context, field, url string) error {
	return nil
}

type fixedCompleter struct {
	reply string
	err   error
}

func (c *fixedCompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return c.reply, c.err
}

// testEnv rebinds the controller package vars to in-memory doubles and
// returns them for inspection.
type testEnv struct {
	chats  *memChatRepo
	store  *memSessionStore
	config *memConfigRepo
}

func setupEnv(t *testing.T, completer services.Completer) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		chats: newMemChatRepo(),
		store: newMemSessionStore(),
		config: &memConfigRepo{cfg: &models.BotConfig{
			BotName:          "Penny",
			BusinessName:     "Acme",
			WelcomeMessage:   "Great! How can I help you today?",
			FallbackResponse: "Sorry, please try again later.",
		}},
	}

	completion := services.NewCompletionService(completer)
	Chats = env.chats
	BotConfig = env.config
	Completion = completion
	Notify = nil
	Sessions = services.NewSessionService(env.store, env.chats, env.config, completion, nil)

	return env
}

func widgetRouter() *gin.Engine {
	r := gin.New()
	r.GET("/widget.js", WidgetScriptHandler)
	api := r.Group("/api")
	{
		api.GET("/config", GetPublicConfigHandler)
		api.POST("/session/start", StartSessionHandler)
		api.POST("/session/mobile", SubmitMobileHandler)
		api.POST("/session/message", SendMessageHandler)
		api.POST("/session/rating", SubmitRatingHandler)
		api.GET("/session/resume", ResumeSessionHandler)
		api.POST("/chat", CompletionHandler)
		api.POST("/notify", NotifyHandler)
	}
	// Auth middlewares are exercised separately; here the handlers are
	// mounted bare.
	admin := r.Group("/admin")
	{
		admin.GET("/chats", ListChatsHandler)
		admin.GET("/chats/:chatID", GetChatDetailHandler)
		admin.GET("/metrics", GetChatMetricsHandler)
		admin.GET("/config", GetBotConfigHandler)
		admin.PUT("/config", UpdateBotConfigHandler)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
