package repository

import (
	"context"
	"sync"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// UserRepository defines lookups over the seeded user directory.
type UserRepository interface {
	Load(users []models.User)
	FindByCredentials(ctx context.Context, email, password string) (models.User, bool)
	FindByUsername(ctx context.Context, username string) (models.User, bool)
}

type InMemoryUserRepository struct {
	mu         sync.RWMutex
	users      []models.User
	byUsername map[string]int
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byUsername: make(map[string]int)}
}

// Load replaces the directory. Later duplicates of a username are ignored.
func (r *InMemoryUserRepository) Load(users []models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make([]models.User, 0, len(users))
	r.byUsername = make(map[string]int, len(users))
	for _, u := range users {
		if _, dup := r.byUsername[u.Login.Username]; dup {
			continue
		}
		r.byUsername[u.Login.Username] = len(r.users)
		r.users = append(r.users, u)
	}
}

// FindByCredentials returns the first user whose email and password both match exactly.
func (r *InMemoryUserRepository) FindByCredentials(_ context.Context, email, password string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email && u.Login.Password == password {
			return u, true
		}
	}
	return models.User{}, false
}

func (r *InMemoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byUsername[username]
	if !ok {
		return models.User{}, false
	}
	return r.users[i], true
}
