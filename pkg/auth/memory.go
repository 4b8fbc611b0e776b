package auth

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"snatchx.shop/storefront/pkg/models"
)

// MemoryUsers is an in-process UserRepository
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return ErrEmailExists
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	m.byID[user.ID.Hex()] = *user
	m.byEmail[user.Email] = user.ID.Hex()
	return nil
}

func (m *MemoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	id, ok := m.byEmail[email]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.FindByID(ctx, id)
}

func (m *MemoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
