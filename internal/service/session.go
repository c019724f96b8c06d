package service

import (
	"errors"
	"sync"
	"time"

	"stayagent/internal/model"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Conversation is one user's booking dialogue: the slot-collection
// controller plus the choose/confirm state that follows it. All turn
// handling for a conversation serializes on its mutex.
type Conversation struct {
	ID       string
	Username string

	mu         sync.Mutex
	stage      string
	controller *DialogueController
	results    []model.ListingSearchResult
	pendingID  int64
	lastActive time.Time
}

// SessionManager tracks live conversations by id and expires the ones
// that go quiet.
type SessionManager struct {
	mu            sync.Mutex
	sessions      map[string]*Conversation
	idleTimeout   time.Duration
	newController func() *DialogueController
}

// NewSessionManager creates a session manager. newController builds a
// fresh dialogue controller per conversation.
func NewSessionManager(idleTimeout time.Duration, newController func() *DialogueController) *SessionManager {
	return &SessionManager{
		sessions:      make(map[string]*Conversation),
		idleTimeout:   idleTimeout,
		newController: newController,
	}
}

// Open starts a new conversation and returns it.
func (m *SessionManager) Open(username string) *Conversation {
	conv := &Conversation{
		ID:         uuid.NewString(),
		Username:   username,
		stage:      model.StageCollect,
		controller: m.newController(),
		lastActive: time.Now(),
	}

	m.mu.Lock()
	m.pruneLocked()
	m.sessions[conv.ID] = conv
	m.mu.Unlock()
	return conv
}

// Get returns the conversation with the given id and refreshes its
// idle clock.
func (m *SessionManager) Get(id string) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	conv, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	conv.lastActive = time.Now()
	return conv, nil
}

// Count returns the number of live conversations.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) pruneLocked() {
	if m.idleTimeout <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.idleTimeout)
	for id, conv := range m.sessions {
		if conv.lastActive.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// reset clears the conversation back to an empty collection stage.
// Callers must hold conv.mu.
func (c *Conversation) resetLocked() {
	c.controller.Reset()
	c.results = nil
	c.pendingID = 0
	c.stage = model.StageCollect
}
