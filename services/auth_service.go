package services

import (
	"context"
	"strings"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/logger"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"go.uber.org/zap"
)

// AuthService exchanges credentials for an access token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type authServiceImpl struct {
	users    repository.UserRepository
	sessions SessionService
	metrics  MetricsRecorder
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, sessions SessionService, metrics MetricsRecorder, logger *zap.Logger) AuthService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &authServiceImpl{
		users:    users,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", apperrors.ErrMissingCredentials
	}

	user, ok := s.users.FindByCredentials(ctx, email, password)
	if !ok {
		logger.For(ctx, s.logger).Info("Login rejected", zap.String("email", email))
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.sessions.IssueOrRefresh(ctx, user.Login.Username)
	if err != nil {
		return "", err
	}

	if err := s.metrics.RecordCount(ctx, awspkg.MetricLogins, nil); err != nil {
		s.logger.Warn("Failed to record login metric", zap.Error(err))
	}
	return token.Token, nil
}
