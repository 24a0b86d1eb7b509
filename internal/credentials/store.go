// Package credentials caches provider access tokens for one run.
package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/iflowkit/iflowkit-scaffold/internal/models"
)

// ErrTokenMissing is returned by provider clients when an HTTP call needs a
// token that was never acquired.
var ErrTokenMissing = errors.New("access token missing")

// MissingTokenError reports which token was missing.
func MissingTokenError(id models.TokenID) error {
	return fmt.Errorf("%w: %s (set %s)", ErrTokenMissing, id, id.EnvVar())
}

// Store is an in-memory token cache seeded lazily from <ID>_TOKEN environment
// variables. A token stays stable for the lifetime of the Store once set;
// nothing is persisted.
type Store struct {
	getenv func(string) string
	tokens map[models.TokenID]string
}

type Option func(*Store)

// WithGetenv replaces os.Getenv.
func WithGetenv(fn func(string) string) Option {
	return func(s *Store) { s.getenv = fn }
}

func NewStore(opts ...Option) *Store {
	s := &Store{getenv: os.Getenv, tokens: map[models.TokenID]string{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached token, or the environment token which is then cached.
func (s *Store) Get(id models.TokenID) (string, bool) {
	if t, ok := s.tokens[id]; ok {
		return t, true
	}
	t := s.getenv(id.EnvVar())
	if t == "" {
		return "", false
	}
	s.Set(id, t)
	return t, true
}

// Has reports whether a token is cached. It does not consult the environment.
func (s *Store) Has(id models.TokenID) bool {
	_, ok := s.tokens[id]
	return ok
}

// Set overwrites the cached token. token must be non-empty.
func (s *Store) Set(id models.TokenID, token string) {
	s.tokens[id] = token
}
