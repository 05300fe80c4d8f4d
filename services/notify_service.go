package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Notifier dispatches the "new chat" push notification to admins.
type Notifier interface {
	NotifyNewChat(ctx context.Context, name, email, message string) error
}

// PushoverNotifier sends push notifications through the Pushover API.
type PushoverNotifier struct {
	UserKey  string
	AppToken string
	Title    string
	Endpoint string
	Client   *http.Client
}

func NewPushoverNotifier(userKey, appToken, title string) *PushoverNotifier {
	return &PushoverNotifier{
		UserKey:  userKey,
		AppToken: appToken,
		Title:    title,
		Endpoint: pushoverEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *PushoverNotifier) NotifyNewChat(ctx context.Context, name, email, message string) error {
	if n.UserKey == "" || n.AppToken == "" {
		return errors.New("pushover credentials are not configured")
	}

	form := url.Values{}
	form.Set("token", n.AppToken)
	form.Set("user", n.UserKey)
	form.Set("title", n.Title)
	form.Set("sound", "cosmic")
	form.Set("priority", "1")
	form.Set("message", fmt.Sprintf("New chat from %s (%s)\nFirst message: %s", name, email, message))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Pushover: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("pushover returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
