package services

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTokenValidity is how long a token stays valid after the last login.
const DefaultTokenValidity = 15 * time.Minute

// SessionService issues access tokens and resolves them back to a user.
type SessionService interface {
	IssueOrRefresh(ctx context.Context, username string) (models.AccessToken, error)
	Resolve(ctx context.Context, token string) (models.Session, error)
}

type SessionOption func(*sessionServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionServiceImpl) { s.now = now }
}

// WithUserDirectory makes Resolve reject tokens whose user is no longer in
// users, for instance after the seed data was reloaded without them.
func WithUserDirectory(users repository.UserRepository) SessionOption {
	return func(s *sessionServiceImpl) { s.users = users }
}

// WithTokenMinter replaces the random token generator.
func WithTokenMinter(mint func() string) SessionOption {
	return func(s *sessionServiceImpl) { s.mint = mint }
}

type sessionServiceImpl struct {
	tokens   repository.TokenRepository
	users    repository.UserRepository
	validity time.Duration
	now      func() time.Time
	mint     func() string
	logger   *zap.Logger
}

func NewSessionService(tokens repository.TokenRepository, validity time.Duration, logger *zap.Logger, opts ...SessionOption) SessionService {
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	s := &sessionServiceImpl{
		tokens:   tokens,
		validity: validity,
		now:      time.Now,
		mint:     newToken,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newToken returns 32 hex characters of uuid v4 randomness.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *sessionServiceImpl) IssueOrRefresh(ctx context.Context, username string) (models.AccessToken, error) {
	if username == "" {
		return models.AccessToken{}, apperrors.ErrInvalidCredentials
	}

	token, created := s.tokens.IssueOrRefresh(ctx, username, s.now(), s.mint)
	if created {
		s.logger.Info("Access token issued", zap.String("username", username))
	} else {
		s.logger.Debug("Access token refreshed", zap.String("username", username))
	}
	return token, nil
}

// Resolve does not extend the token's lifetime; only a new login does.
func (s *sessionServiceImpl) Resolve(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, apperrors.ErrUnauthenticated
	}

	record, ok := s.tokens.FindByToken(ctx, token)
	if !ok {
		return models.Session{}, apperrors.ErrUnauthenticated
	}
	if s.now().Sub(record.LastUpdated) >= s.validity {
		return models.Session{}, apperrors.ErrUnauthenticated
	}

	if s.users != nil {
		if _, ok := s.users.FindByUsername(ctx, record.Username); !ok {
			return models.Session{}, apperrors.ErrUnauthenticated
		}
	}

	return models.Session{Username: record.Username, Token: record.Token}, nil
}
