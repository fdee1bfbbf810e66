package domain

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername = errors.New("admin username is required")
	ErrEmptyPassword = errors.New("admin password is required")
	ErrEmptyToken    = errors.New("session token is required")
)

// Credentials holds the single configured administrator.
type Credentials struct {
	Username     string
	PasswordHash []byte
}

// NewCredentials accepts an existing bcrypt hash.
func NewCredentials(username string, passwordHash []byte) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(passwordHash) == 0 {
		return nil, ErrEmptyPassword
	}
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, err
	}
	return &Credentials{Username: username, PasswordHash: passwordHash}, nil
}

// NewCredentialsFromPassword hashes a plain password with the default bcrypt cost.
func NewCredentialsFromPassword(username, password string) (*Credentials, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return NewCredentials(username, hash)
}

// Verify reports whether the pair matches. The hash is always compared so a
// wrong username costs the same as a wrong password.
func (c *Credentials) Verify(username, password string) bool {
	if c == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(c.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
	return userOK && passOK && password != ""
}

// Session is an issued admin bearer token.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func NewSession(token, username string, now time.Time, ttl time.Duration) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	return &Session{Token: token, Username: username, CreatedAt: now, ExpiresAt: now.Add(ttl)}, nil
}

// Expired is true once now reaches ExpiresAt.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
