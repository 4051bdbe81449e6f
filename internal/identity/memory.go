package identity

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

// MemoryStore keeps principals in a map. Used for tests and offline runs.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]Principal
	hashes map[string]string // id -> bcrypt hash
}

func NewMemoryStore(seed ...Principal) *MemoryStore {
	m := &MemoryStore{
		users:  make(map[string]Principal, len(seed)),
		hashes: make(map[string]string),
	}
	for _, p := range seed {
		if p.Role == "" {
			p.Role = RoleUser
		}
		m.users[p.ID] = p
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, id string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.users[id]
	if !ok {
		return Principal{}, apperr.NotFound("user", id)
	}
	return p, nil
}

func (m *MemoryStore) GetByEmail(_ context.Context, email string) (Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.users {
		if p.Email == email {
			return p, nil
		}
	}
	return Principal{}, apperr.NotFound("user", email)
}

func (m *MemoryStore) List(_ context.Context) ([]Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Principal, 0, len(m.users))
	for _, p := range m.users {
		out = append(out, p)
	}
	return out, nil
}

func (m *MemoryStore) UpdateRole(_ context.Context, id, role string) error {
	if !ValidRole(role) {
		return apperr.Validation("role", "unknown role "+role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user", id)
	}
	if p.Role == role {
		return nil
	}
	p.Role = role
	m.users[id] = p
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("user", id)
	}
	delete(m.users, id)
	delete(m.hashes, id)
	return nil
}

func (m *MemoryStore) Upsert(_ context.Context, p Principal, passwordHash string) error {
	if p.Role == "" {
		p.Role = RoleUser
	}
	if !ValidRole(p.Role) {
		return apperr.Validation("role", "unknown role "+p.Role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[p.ID] = p
	if passwordHash != "" {
		m.hashes[p.ID] = passwordHash
	}
	return nil
}

func (m *MemoryStore) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	p, err := m.GetByEmail(ctx, email)
	if err != nil {
		return Principal{}, err
	}
	m.mu.RLock()
	hash := m.hashes[p.ID]
	m.mu.RUnlock()
	if hash == "" {
		return Principal{}, errors.New("no local credentials for user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Principal{}, errors.New("invalid credentials")
	}
	return p, nil
}
