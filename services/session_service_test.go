package services_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSessionService(clock *fakeClock) services.SessionService {
	return services.NewSessionService(
		repository.NewInMemoryTokenRepository(),
		services.DefaultTokenValidity,
		zap.NewNop(),
		services.WithClock(clock.Now),
	)
}

func TestSessionService_RepeatLoginReturnsSameToken(t *testing.T) {
	clock := newFakeClock()
	svc := newSessionService(clock)

	first, err := svc.IssueOrRefresh(context.Background(), "yellowleopard753")
	require.NoError(t, err)
	assert.Len(t, first.Token, 32)

	clock.Advance(10 * time.Minute)
	second, err := svc.IssueOrRefresh(context.Background(), "yellowleopard753")
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, clock.Now(), second.LastUpdated)
}

func TestSessionService_DistinctUsersGetDistinctTokens(t *testing.T) {
	svc := newSessionService(newFakeClock())

	a, _ := svc.IssueOrRefresh(context.Background(), "alice")
	b, _ := svc.IssueOrRefresh(context.Background(), "bob")
	assert.NotEqual(t, a.Token, b.Token)
}

func TestSessionService_ExpiryBoundary(t *testing.T) {
	clock := newFakeClock()
	svc := newSessionService(clock)

	tok, err := svc.IssueOrRefresh(context.Background(), "alice")
	require.NoError(t, err)

	clock.Advance(services.DefaultTokenValidity - time.Nanosecond)
	session, err := svc.Resolve(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	clock.Advance(time.Nanosecond)
	_, err = svc.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSessionService_ResolveDoesNotExtendLifetime(t *testing.T) {
	clock := newFakeClock()
	svc := newSessionService(clock)
	tok, _ := svc.IssueOrRefresh(context.Background(), "alice")

	for i := 0; i < 3; i++ {
		clock.Advance(5 * time.Minute)
		_, _ = svc.Resolve(context.Background(), tok.Token)
	}

	_, err := svc.Resolve(context.Background(), tok.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSessionService_LoginRevivesExpiredToken(t *testing.T) {
	clock := newFakeClock()
	svc := newSessionService(clock)
	tok, _ := svc.IssueOrRefresh(context.Background(), "alice")

	clock.Advance(time.Hour)
	again, err := svc.IssueOrRefresh(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, tok.Token, again.Token)

	session, err := svc.Resolve(context.Background(), tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	clock.Advance(services.DefaultTokenValidity - time.Nanosecond)
	_, err = svc.Resolve(context.Background(), tok.Token)
	assert.NoError(t, err)
}

func TestSessionService_RejectsEmptyAndUnknownTokens(t *testing.T) {
	svc := newSessionService(newFakeClock())

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSessionService_UserDirectoryRejectsUnknownUsers(t *testing.T) {
	users := repository.NewInMemoryUserRepository()
	users.Load([]models.User{{Login: models.Login{Username: "alice"}}})

	svc := services.NewSessionService(
		repository.NewInMemoryTokenRepository(),
		services.DefaultTokenValidity,
		zap.NewNop(),
		services.WithUserDirectory(users),
	)

	known, _ := svc.IssueOrRefresh(context.Background(), "alice")
	stranger, _ := svc.IssueOrRefresh(context.Background(), "mallory")

	session, err := svc.Resolve(context.Background(), known.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	_, err = svc.Resolve(context.Background(), stranger.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	users.Load(nil)
	_, err = svc.Resolve(context.Background(), known.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSessionService_CustomMinter(t *testing.T) {
	svc := services.NewSessionService(
		repository.NewInMemoryTokenRepository(),
		time.Minute,
		zap.NewNop(),
		services.WithTokenMinter(func() string { return "fixed" }),
	)

	tok, err := svc.IssueOrRefresh(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok.Token)
}
