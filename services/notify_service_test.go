package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyNewChatPostsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"token":    r.PostFormValue("token"),
			"user":     r.PostFormValue("user"),
			"title":    r.PostFormValue("title"),
			"sound":    r.PostFormValue("sound"),
			"priority": r.PostFormValue("priority"),
			"message":  r.PostFormValue("message"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewPushoverNotifier("user-key", "app-token", "Support ChatBot")
	n.Endpoint = srv.URL

	err := n.NotifyNewChat(context.Background(), "Jane", "jane@x.com", "hello there")
	require.NoError(t, err)

	assert.Equal(t, "app-token", got["token"])
	assert.Equal(t, "user-key", got["user"])
	assert.Equal(t, "Support ChatBot", got["title"])
	assert.Equal(t, "cosmic", got["sound"])
	assert.Equal(t, "1", got["priority"])
	assert.Equal(t, "New chat from Jane (jane@x.com)\nFirst message: hello there", got["message"])
}

func TestNotifyNewChatRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":0,"errors":["application token is invalid"]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewPushoverNotifier("user-key", "app-token", "Support ChatBot")
	n.Endpoint = srv.URL

	err := n.NotifyNewChat(context.Background(), "Jane", "jane@x.com", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestNotifyNewChatRequiresCredentials(t *testing.T) {
	n := NewPushoverNotifier("", "", "Support ChatBot")
	assert.Error(t, n.NotifyNewChat(context.Background(), "Jane", "jane@x.com", "hello"))
}
