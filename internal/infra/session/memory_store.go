// Package session holds dialog state in process memory. State does not
// survive a restart; an interrupted dialog is simply gone.
package session

import (
	"sync"

	"homework_bot/internal/domain/conversation"
	"homework_bot/internal/domain/homework"
)

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[conversation.Key]*conversation.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[conversation.Key]*conversation.Session),
	}
}

func (m *MemoryStore) Get(key conversation.Key) *conversation.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return nil
	}
	return clone(s)
}

func (m *MemoryStore) Put(key conversation.Key, s *conversation.Session) {
	if !s.Active() {
		m.Clear(key)
		return
	}
	c := clone(s)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = c
}

func (m *MemoryStore) Clear(key conversation.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len reports the number of active dialogs.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func clone(s *conversation.Session) *conversation.Session {
	c := *s
	if s.Fields.Attachments != nil {
		c.Fields.Attachments = append([]homework.Attachment(nil), s.Fields.Attachments...)
	}
	return &c
}
