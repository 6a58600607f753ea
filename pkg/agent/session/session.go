// Package session keeps per-conversation state alive across channel
// switches. The session is the single source of truth for a citizen's
// in-flight interaction regardless of which transport delivered the last
// utterance.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

// Channels a session can live on.
const (
	ChannelWeb      = "web"
	ChannelPhone    = "phone"
	ChannelWhatsApp = "whatsapp"
	ChannelKiosk    = "kiosk"
)

// HistoryEntry is one conversation turn or channel-switch event.
type HistoryEntry struct {
	Role      string    `json:"role,omitempty"`
	Message   string    `json:"message,omitempty"`
	Event     string    `json:"event,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a continuity container for one citizen's interaction. Values
// returned by the Manager are copies; mutate only through Manager methods.
type Session struct {
	ID            string           `json:"session_id"`
	CitizenID     string           `json:"citizen_id"`
	Channel       string           `json:"channel"`
	Cart          []store.CartItem `json:"cart_items"`
	History       []HistoryEntry   `json:"conversation_history"`
	CurrentIntent string           `json:"current_intent,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	LastActivity  time.Time        `json:"last_activity"`
}

// Manager owns all sessions for the process. Sessions are created lazily and
// never evicted; acceptable for a demo, a real deployment needs TTL-based
// cleanup here.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now != nil {
		m.now = now
	}
}

// GetOrCreate returns the session for id, creating it with the default
// channel and citizen binding when absent. Every call refreshes
// last_activity. Never fails.
func (m *Manager) GetOrCreate(id string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.locked(id))
}

func clone(s *Session) Session {
	out := *s
	out.Cart = append([]store.CartItem(nil), s.Cart...)
	out.History = append([]HistoryEntry(nil), s.History...)
	return out
}

func (m *Manager) locked(id string) *Session {
	s, ok := m.sessions[id]
	if !ok {
		now := m.now()
		s = &Session{
			ID:           id,
			CitizenID:    catalog.DefaultCitizenID,
			Channel:      ChannelWeb,
			CreatedAt:    now,
			LastActivity: now,
		}
		m.sessions[id] = s
		return s
	}
	if ts := m.now(); ts.After(s.LastActivity) {
		s.LastActivity = ts
	}
	return s
}

// BindCitizen attaches a known citizen identity to the session.
func (m *Manager) BindCitizen(id, citizenID string) {
	if citizenID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(id).CitizenID = citizenID
}

// SwitchChannel moves the session to a new channel and records exactly one
// channel-switch event in the history.
func (m *Manager) SwitchChannel(id, newChannel string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.locked(id)
	old := s.Channel
	s.Channel = newChannel
	s.History = append(s.History, HistoryEntry{
		Event:     "channel_switch",
		From:      old,
		To:        newChannel,
		Timestamp: m.now(),
	})
	return clone(s)
}

// RecordTurn appends one conversation-history entry.
func (m *Manager) RecordTurn(id, role, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.locked(id)
	s.History = append(s.History, HistoryEntry{
		Role:      role,
		Message:   message,
		Timestamp: m.now(),
	})
}

// SetCart replaces the session's cart snapshot after the cart ledger mutated.
func (m *Manager) SetCart(id string, items []store.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.locked(id)
	s.Cart = make([]store.CartItem, len(items))
	copy(s.Cart, items)
}

// SetIntent records the classifier's latest primary intent.
func (m *Manager) SetIntent(id, intent string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(id).CurrentIntent = intent
}

// Summary renders a one-paragraph handoff summary for display or human
// escalation.
func (m *Manager) Summary(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.locked(id)

	activity := s.CurrentIntent
	if activity == "" {
		activity = "browsing"
	}
	out := fmt.Sprintf("Citizen %s on %s. ", s.CitizenID, s.Channel)
	if n := len(s.Cart); n > 0 {
		out += fmt.Sprintf("%d applications in progress. ", n)
	}
	return out + fmt.Sprintf("Current activity: %s.", activity)
}
