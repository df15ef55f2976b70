// Package session stores transient per-chat conversation state. A session
// is data, not a blocked goroutine: the conversation engine writes the
// current step here and re-enters on the next inbound update.
//
// Two implementations are provided: an in-memory map (default; state is
// lost on restart, which is accepted) and a Redis-backed store that
// survives restarts.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no session exists for the chat.
var ErrNotFound = errors.New("session not found")

// Session is the suspended state of one conversation program for one chat.
type Session struct {
	ChatID    int64             `json:"chat_id"`
	Program   string            `json:"program"`
	Step      string            `json:"step"`
	Answers   map[string]string `json:"answers,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SetAnswer records a locally accumulated answer.
func (s *Session) SetAnswer(key, value string) {
	if s.Answers == nil {
		s.Answers = make(map[string]string)
	}
	s.Answers[key] = value
}

// Answer returns a previously accumulated answer, or "".
func (s *Session) Answer(key string) string {
	return s.Answers[key]
}

// Store is the conversation-session store keyed by chat id.
type Store interface {
	// Get returns the session for the chat, or ErrNotFound.
	Get(ctx context.Context, chatID int64) (*Session, error)

	// Put creates or replaces the session for its chat id.
	Put(ctx context.Context, sess *Session) error

	// Delete removes the session for the chat. Deleting an absent session
	// is not an error.
	Delete(ctx context.Context, chatID int64) error
}
