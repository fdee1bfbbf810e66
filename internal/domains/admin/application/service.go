package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/admin/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service authenticates the configured administrator.
type Service struct {
	credentials *domain.Credentials
	sessions    ports.SessionStore
	ttl         time.Duration
	now         func() time.Time
	newToken    func() string
}

type Option func(*Service)

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithTokenGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newToken = fn
		}
	}
}

func NewService(credentials *domain.Credentials, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		credentials: credentials,
		sessions:    sessions,
		ttl:         DefaultSessionTTL,
		now:         time.Now,
		newToken:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login issues a session token when the credentials match.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if !s.credentials.Verify(username, password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	session, err := domain.NewSession(s.newToken(), s.credentials.Username, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save admin session: %w", err)
	}
	return session, nil
}

// Logout forgets the token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Authenticate resolves a bearer token; expired sessions are removed on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(domain.ErrEmptyToken)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, mapError(ports.ErrSessionNotFound)
	}
	return session, nil
}

var _ ports.Service = (*Service)(nil)
