package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// TokenRepository stores at most one access token per username.
type TokenRepository interface {
	// IssueOrRefresh resets the stored token's LastUpdated to now, or stores a
	// new token produced by mint when the username has none. created reports
	// which happened.
	IssueOrRefresh(ctx context.Context, username string, now time.Time, mint func() string) (token models.AccessToken, created bool)
	FindByToken(ctx context.Context, token string) (models.AccessToken, bool)
}

type InMemoryTokenRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.AccessToken
	byToken    map[string]*models.AccessToken
}

func NewInMemoryTokenRepository() *InMemoryTokenRepository {
	return &InMemoryTokenRepository{
		byUsername: make(map[string]*models.AccessToken),
		byToken:    make(map[string]*models.AccessToken),
	}
}

func (r *InMemoryTokenRepository) IssueOrRefresh(_ context.Context, username string, now time.Time, mint func() string) (models.AccessToken, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUsername[username]; ok {
		existing.LastUpdated = now
		return *existing, false
	}

	value := mint()
	for {
		if _, taken := r.byToken[value]; !taken {
			break
		}
		value = mint()
	}

	t := &models.AccessToken{Username: username, Token: value, LastUpdated: now}
	r.byUsername[username] = t
	r.byToken[value] = t
	return *t, true
}

func (r *InMemoryTokenRepository) FindByToken(_ context.Context, token string) (models.AccessToken, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byToken[token]
	if !ok {
		return models.AccessToken{}, false
	}
	return *t, true
}
