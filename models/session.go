package models

import (
	"fmt"
	"time"
)

// Step is the widget wizard step. The old frontend tracked this with bare
// string literals; here every transition goes through AdvanceTo so an
// out-of-order request is rejected instead of silently accepted.
type Step string

const (
	StepInitial Step = "initial" // collecting name + email
	StepMobile  Step = "mobile"  // collecting phone number
	StepChat    Step = "chat"    // free-form message exchange
)

// stepTransitions is the full transition table: initial -> mobile -> chat.
// Closing is a side effect layered on top of chat, not a step of its own.
var stepTransitions = map[Step]Step{
	StepInitial: StepMobile,
	StepMobile:  StepChat,
}

func (s Step) Valid() bool {
	switch s {
	case StepInitial, StepMobile, StepChat:
		return true
	}
	return false
}

// AdvanceTo validates the transition s -> next and returns next.
func (s Step) AdvanceTo(next Step) (Step, error) {
	if !next.Valid() {
		return s, fmt.Errorf("unknown step %q", string(next))
	}
	if stepTransitions[s] != next {
		return s, fmt.Errorf("invalid step transition %q -> %q", string(s), string(next))
	}
	return next, nil
}

// WidgetSession is the persisted session record for one browser tab.
// It lives in the session store with a 30 minute TTL; a reload inside the
// window restores user details and resumes in the chat step.
type WidgetSession struct {
	SessionID    string      `json:"session_id"`
	VisitorID    string      `json:"visitor_id"`
	ChatID       string      `json:"chat_id"`
	Step         Step        `json:"step"`
	UserDetails  UserDetails `json:"user_details"`
	LastActivity time.Time   `json:"last_activity"`
	// Notified marks that the admin push notification for this
	// conversation's first user message already went out.
	Notified bool `json:"notified"`
}

// Expired reports whether the session fell outside the resumption window.
// The store also expires entries on its own; this check keeps the policy
// explicit when a store implementation has coarser expiry.
func (s *WidgetSession) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) >= ttl
}

// Touch refreshes the resumption window.
func (s *WidgetSession) Touch(now time.Time) {
	s.LastActivity = now
}
