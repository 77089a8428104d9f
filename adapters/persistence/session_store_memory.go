package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/career-studio/internal/domain/studio"
)

// memorySessionStore keeps sessions encoded, the same way Redis does, so
// callers never share a session value.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID][]byte
}

func NewMemorySessionStore() studio.Store {
	return &memorySessionStore{sessions: make(map[uuid.UUID][]byte)}
}

func (m *memorySessionStore) Get(_ context.Context, ownerID uuid.UUID) (*studio.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ownerID)
}

func (m *memorySessionStore) Put(_ context.Context, s *studio.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode studio session: %w", err)
	}
	m.mu.Lock()
	m.sessions[s.OwnerID] = raw
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) Update(_ context.Context, ownerID uuid.UUID, fn func(*studio.Session) error) (*studio.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ownerID)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode studio session: %w", err)
	}
	m.sessions[ownerID] = raw
	return s, nil
}

func (m *memorySessionStore) Delete(_ context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, ownerID)
	m.mu.Unlock()
	return nil
}

func (m *memorySessionStore) load(ownerID uuid.UUID) (*studio.Session, error) {
	raw, ok := m.sessions[ownerID]
	if !ok {
		return nil, studio.ErrSessionNotFound
	}
	var s studio.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode studio session: %w", err)
	}
	return &s, nil
}
