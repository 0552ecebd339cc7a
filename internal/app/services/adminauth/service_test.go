package adminauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/infra/security"
)

func newService(t *testing.T) *Service {
	t.Helper()
	hasher := security.BcryptHasher{Cost: 4}
	hash, err := hasher.Hash("segreto")
	require.NoError(t, err)
	return &Service{
		Username:     "admin",
		PasswordHash: hash,
		Passwords:    hasher,
		Tokens:       security.RandomTokenGenerator{},
		SessionTTL:   time.Hour,
	}
}

func TestLoginAndResolve(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	token, err := s.Login(ctx, "admin", "segreto")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newService(t)

	_, err := s.Login(context.Background(), "admin", "sbagliato")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	s := newService(t)

	_, err := s.Login(context.Background(), "mallory", "segreto")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	token, err := s.Login(ctx, "admin", "segreto")
	require.NoError(t, err)

	s.Logout(ctx, token)
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	s := newService(t)
	s.SessionTTL = time.Nanosecond
	ctx := context.Background()

	token, err := s.Login(ctx, "admin", "segreto")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
