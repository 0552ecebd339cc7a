package adminauth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("adminauth: invalid credentials")
	ErrSessionNotFound    = errors.New("adminauth: session not found")
	ErrNotConfigured      = errors.New("adminauth: hasher and token generator required")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service authenticates the single back-office administrator. The site has
// exactly one admin account, so sessions live in memory; restarting the
// process just means logging in again.
type Service struct {
	Username     string
	PasswordHash string
	Passwords    PasswordHasher
	Tokens       TokenGenerator
	SessionTTL   time.Duration
	Logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[string]Session
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if s.Passwords == nil || s.Tokens == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(username) != s.Username || s.Username == "" {
		return "", ErrInvalidCredentials
	}
	if err := s.Passwords.Compare(s.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[string]Session)
	}
	s.sessions[token] = Session{Token: token, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.Info("admin logged in")
	}
	return token, nil
}

func (s *Service) Resolve(ctx context.Context, token string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
