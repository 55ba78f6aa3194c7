package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for SESSION_BACKEND=memory and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}
	if !s.ExpiresAt.After(m.now()) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.ExpiresAt.After(m.now()) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Update(ctx context.Context, s Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}
	if !s.ExpiresAt.After(m.now()) {
		return m.Delete(ctx, s.SessionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

type pendingEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryPendingStore is an in-process PendingStore. Values are stored
// JSON encoded so callers never share mutable state with the store.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]pendingEntry
	now     func() time.Time
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

func (m *MemoryPendingStore) Get(_ context.Context, id string) (*Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.After(m.now()) {
		delete(m.entries, id)
		return nil, nil
	}

	var p Pending
	if err := json.Unmarshal(e.data, &p); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal pending: %w", err)
	}
	return &p, nil
}

func (m *MemoryPendingStore) Save(_ context.Context, id string, p *Pending, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("session: missing pending id")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: pending ttl must be positive")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("session: failed to marshal pending: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = pendingEntry{data: data, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryPendingStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
