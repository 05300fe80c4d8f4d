package controllers

import (
	"net/http"
	"testing"

	"chatbot-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycleOverHTTP(t *testing.T) {
	env := setupEnv(t, &fixedCompleter{reply: "We open at 9am."})
	r := widgetRouter()

	// Initial form
	w := doJSON(t, r, http.MethodPost, "/api/session/start", "", body("name", "Jane", "email", "jane@x.com"))
	require.Equal(t, http.StatusOK, w.Code)

	var started models.StartSessionResponse
	decodeBody(t, w, &started)
	require.NotEmpty(t, started.SessionID)
	require.NotEmpty(t, started.ChatID)
	assert.Contains(t, started.Message, "Jane")
	assert.False(t, started.HasRated)

	// Mobile form
	w = doJSON(t, r, http.MethodPost, "/api/session/mobile", started.SessionID, body("mobile", "5551234"))
	require.Equal(t, http.StatusOK, w.Code)

	var mobile models.SendMessageResponse
	decodeBody(t, w, &mobile)
	assert.Equal(t, "Great! How can I help you today?", mobile.Message)

	// Chat exchange
	w = doJSON(t, r, http.MethodPost, "/api/session/message", started.SessionID, body("message", "What are your hours?"))
	require.Equal(t, http.StatusOK, w.Code)

	var reply models.SendMessageResponse
	decodeBody(t, w, &reply)
	assert.Equal(t, "We open at 9am.", reply.Message)

	convo := env.chats.convos[started.ChatID]
	require.NotNil(t, convo)
	assert.Len(t, convo.Messages, 4)

	// Reload inside the window
	w = doJSON(t, r, http.MethodGet, "/api/session/resume", started.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resumed models.ResumeSessionResponse
	decodeBody(t, w, &resumed)
	assert.Equal(t, "chat", resumed.Step)
	assert.Equal(t, started.ChatID, resumed.ChatID)
	assert.Equal(t, "5551234", resumed.UserDetails.Mobile)

	// Close with a rating
	w = doJSON(t, r, http.MethodPost, "/api/session/rating", started.SessionID, body("rating", 5, "feedback", "great"))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, convo.Rating)
	assert.Equal(t, 5, *convo.Rating)

	// The session is gone afterwards.
	w = doJSON(t, r, http.MethodGet, "/api/session/resume", started.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartSessionValidation(t *testing.T) {
	setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session/start", "", body("name", "Jane"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/session/start", "", body("email", "jane@x.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHeaderRequired(t *testing.T) {
	setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	for _, call := range []struct {
		method string
		path   string
		body   map[string]interface{}
	}{
		{http.MethodPost, "/api/session/mobile", body("mobile", "5551234")},
		{http.MethodPost, "/api/session/message", body("message", "hi")},
		{http.MethodPost, "/api/session/rating", body("rating", 3)},
		{http.MethodGet, "/api/session/resume", nil},
	} {
		w := doJSON(t, r, call.method, call.path, "", call.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", call.method, call.path)
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session/message", "no-such-session", body("message", "hi"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageBeforeMobileIsConflict(t *testing.T) {
	setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session/start", "", body("name", "Jane", "email", "jane@x.com"))
	require.Equal(t, http.StatusOK, w.Code)
	var started models.StartSessionResponse
	decodeBody(t, w, &started)

	w = doJSON(t, r, http.MethodPost, "/api/session/message", started.SessionID, body("message", "hi"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOverlappingSendIsConflict(t *testing.T) {
	env := setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session/start", "", body("name", "Jane", "email", "jane@x.com"))
	require.Equal(t, http.StatusOK, w.Code)
	var started models.StartSessionResponse
	decodeBody(t, w, &started)

	w = doJSON(t, r, http.MethodPost, "/api/session/mobile", started.SessionID, body("mobile", "5551234"))
	require.Equal(t, http.StatusOK, w.Code)

	env.store.inflight[started.SessionID] = true
	w = doJSON(t, r, http.MethodPost, "/api/session/message", started.SessionID, body("message", "hi"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRatingOutOfRangeIsRejected(t *testing.T) {
	setupEnv(t, &fixedCompleter{reply: "hi"})
	r := widgetRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session/start", "", body("name", "Jane", "email", "jane@x.com"))
	require.Equal(t, http.StatusOK, w.Code)
	var started models.StartSessionResponse
	decodeBody(t, w, &started)

	w = doJSON(t, r, http.MethodPost, "/api/session/rating", started.SessionID, body("rating", 6))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// body builds a map literal for request bodies.
func body(kv ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}
