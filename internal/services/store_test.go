package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/visco/internal/models"
	"github.com/crucial707/visco/internal/repo"
)

// memStore is an in-memory users + client_data store with the same uniqueness and
// cascade rules as the SQL schema.
type memStore struct {
	mu      sync.Mutex
	users   map[int]*models.User
	records map[int]*models.ClientRecord
	nextID  int
	creates int
}

func newMemStore() *memStore {
	return &memStore{users: map[int]*models.User{}, records: map[int]*models.ClientRecord{}}
}

func (m *memStore) Create(_ context.Context, username, email string, hash []byte, role string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return nil, repo.ErrUsernameTaken
		}
		if u.Email == email {
			return nil, repo.ErrEmailTaken
		}
	}
	m.nextID++
	m.creates++
	u := &models.User{ID: m.nextID, Username: username, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id int) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

// DeleteUser removes a user and, like ON DELETE CASCADE, all of their records.
func (m *memStore) DeleteUser(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	for rid, r := range m.records {
		if r.UserID == id {
			delete(m.records, rid)
		}
	}
}

type memRecords struct{ *memStore }

func (m memRecords) Create(_ context.Context, ownerID int, ct []byte) (*models.ClientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[ownerID]; !ok {
		return nil, repo.ErrNotFound
	}
	m.nextID++
	now := time.Now()
	r := &models.ClientRecord{ID: m.nextID, UserID: ownerID, Data: ct, CreatedAt: now, UpdatedAt: now}
	m.records[r.ID] = r
	return r, nil
}

func (m memRecords) ListByOwner(_ context.Context, ownerID int) ([]models.ClientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ClientRecord{}
	for _, r := range m.records {
		if r.UserID == ownerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memRecords) GetByOwner(_ context.Context, id, ownerID int) (*models.ClientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || r.UserID != ownerID {
		return nil, repo.ErrNotFound
	}
	return r, nil
}

func (m memRecords) DeleteByOwner(_ context.Context, id, ownerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || r.UserID != ownerID {
		return repo.ErrNotFound
	}
	delete(m.records, id)
	return nil
}
