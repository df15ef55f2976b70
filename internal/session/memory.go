package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a mutex-guarded map. Sessions older than
// the TTL are treated as absent and removed lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory session store. A non-positive ttl
// disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for the chat, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[chatID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if m.expired(sess) {
		m.mu.Lock()
		// Recheck under the write lock; another goroutine may have replaced it
		if cur, ok := m.sessions[chatID]; ok && m.expired(cur) {
			delete(m.sessions, chatID)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	cp := *sess
	cp.Answers = make(map[string]string, len(sess.Answers))
	for k, v := range sess.Answers {
		cp.Answers[k] = v
	}
	return &cp, nil
}

// Put creates or replaces the session for its chat id.
func (m *MemoryStore) Put(_ context.Context, sess *Session) error {
	cp := *sess
	cp.UpdatedAt = time.Now().UTC()
	cp.Answers = make(map[string]string, len(sess.Answers))
	for k, v := range sess.Answers {
		cp.Answers[k] = v
	}

	m.mu.Lock()
	m.sessions[sess.ChatID] = &cp
	m.mu.Unlock()
	return nil
}

// Delete removes the session for the chat.
func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.sessions, chatID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) expired(sess *Session) bool {
	return m.ttl > 0 && time.Since(sess.UpdatedAt) > m.ttl
}
