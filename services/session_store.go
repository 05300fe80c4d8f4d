package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatbot-backend/models"

	"github.com/redis/go-redis/v9"
)

// SessionTTL is the resumption window: a reload inside it restores the
// session, beyond it the stored data is discarded.
const SessionTTL = 30 * time.Minute

// sendLockTTL bounds how long an in-flight marker can outlive a crashed
// request before the session accepts sends again.
const sendLockTTL = time.Minute

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSendInFlight    = errors.New("another message is still being processed")
)

// SessionStore is the single read/write interface for widget session
// state, replacing the old frontend's scattered localStorage keys.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.WidgetSession, error)
	Save(ctx context.Context, sess *models.WidgetSession) error
	Delete(ctx context.Context, sessionID string) error

	// Rated-before flag, keyed by visitor and deliberately without TTL:
	// a visitor who rated once only gets a dismiss-only prompt afterwards.
	MarkRated(ctx context.Context, visitorID string) error
	HasRated(ctx context.Context, visitorID string) (bool, error)

	// In-flight send marker. BeginSend reports ErrSendInFlight while a
	// previous send for the same session has not finished.
	BeginSend(ctx context.Context, sessionID string) error
	EndSend(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis with SessionTTL expiry; every
// Save refreshes the window.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: SessionTTL}
}

func sessionKey(id string) string  { return "widget:session:" + id }
func ratedKey(id string) string    { return "widget:rated:" + id }
func inflightKey(id string) string { return "widget:inflight:" + id }

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.WidgetSession, error) {
	payload, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var sess models.WidgetSession
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *models.WidgetSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(sess.SessionID), payload, s.TTL).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *RedisSessionStore) MarkRated(ctx context.Context, visitorID string) error {
	return s.Client.Set(ctx, ratedKey(visitorID), "1", 0).Err()
}

func (s *RedisSessionStore) HasRated(ctx context.Context, visitorID string) (bool, error) {
	_, err := s.Client.Get(ctx, ratedKey(visitorID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *RedisSessionStore) BeginSend(ctx context.Context, sessionID string) error {
	ok, err := s.Client.SetNX(ctx, inflightKey(sessionID), "1", sendLockTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSendInFlight
	}
	return nil
}

func (s *RedisSessionStore) EndSend(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, inflightKey(sessionID)).Err()
}
