// Package session owns the signed-in user: the token pair kept in durable
// storage and the identity decoded from the access token.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/storage"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator exchanges credentials for a token pair.
type Authenticator interface {
	Login(ctx context.Context, phone, password string) (models.TokenPair, error)
}

type Store struct {
	kv   storage.KV
	auth Authenticator
	log  logging.Logger
	now  func() time.Time

	mu        sync.RWMutex
	tokens    models.TokenPair
	identity  *models.Identity
	expiresAt time.Time
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New restores the session from kv. The stored access token is decoded right
// away with no network call; an expired token still yields an identity and
// is refreshed lazily on the first 401. A stored value that cannot be decoded
// is removed.
func New(ctx context.Context, kv storage.KV, auth Authenticator, opts ...Option) *Store {
	s := &Store{kv: kv, auth: auth, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	var pair models.TokenPair
	found, err := kv.Load(ctx, storage.KeyAuthTokens, &pair)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn(ctx, "stored tokens are corrupt, discarding", "error", err)
		s.removeTokens(ctx)
		return s
	case err != nil:
		s.log.Error(ctx, "failed to read stored tokens", "error", err)
		return s
	case !found || pair.Access == "":
		return s
	}

	id, exp, err := DecodeAccessToken(pair.Access)
	if err != nil {
		s.log.Warn(ctx, "stored access token is unusable, discarding", "error", err)
		s.removeTokens(ctx)
		return s
	}

	s.tokens = pair
	s.identity = &id
	s.expiresAt = exp
	return s
}

// Login authenticates with the identifier normalized to digits. On success
// the pair is persisted and the decoded identity returned.
func (s *Store) Login(ctx context.Context, identifier, secret string) (models.Identity, error) {
	phone := models.DigitsOnly(identifier)
	if phone == "" || secret == "" {
		return models.Identity{}, errors.New("phone number and password are required")
	}

	pair, err := s.auth.Login(ctx, phone, secret)
	if err != nil {
		return models.Identity{}, err
	}

	id, exp, err := DecodeAccessToken(pair.Access)
	if err != nil {
		return models.Identity{}, err
	}

	if err := s.kv.Save(ctx, storage.KeyAuthTokens, pair); err != nil {
		return models.Identity{}, fmt.Errorf("save tokens: %w", err)
	}

	s.mu.Lock()
	s.tokens = pair
	s.identity = &id
	s.expiresAt = exp
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", id.UserID, "roles", id.Roles.String())
	return id, nil
}

// Logout drops the session. Storage failures are logged only.
func (s *Store) Logout(ctx context.Context) {
	s.clear()
	s.removeTokens(ctx)
}

// Expire ends a session whose refresh token was rejected.
func (s *Store) Expire(ctx context.Context) {
	s.log.Info(ctx, "session expired")
	s.Logout(ctx)
}

// UpdateIdentityFields merges display fields into the current identity
// without touching the token. It does nothing when signed out.
func (s *Store) UpdateIdentityFields(patch models.IdentityPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return
	}
	id := patch.Apply(*s.identity)
	s.identity = &id
}

// Identity returns a copy of the signed-in identity, or false.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	id := *s.identity
	id.Roles = append(models.Roles(nil), id.Roles...)
	return id, true
}

// Roles returns the signed-in roles, nil when signed out.
func (s *Store) Roles() models.Roles {
	id, ok := s.Identity()
	if !ok {
		return nil
	}
	return id.Roles
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Expired reports whether the access token's exp has passed. The session
// stays usable; the next API call refreshes it.
func (s *Store) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
}

func (s *Store) Tokens() models.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// ReplaceTokens installs a refreshed pair and re-derives the identity from it.
func (s *Store) ReplaceTokens(ctx context.Context, pair models.TokenPair) error {
	id, exp, err := DecodeAccessToken(pair.Access)
	if err != nil {
		return err
	}
	if err := s.kv.Save(ctx, storage.KeyAuthTokens, pair); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}

	s.mu.Lock()
	s.tokens = pair
	s.identity = &id
	s.expiresAt = exp
	s.mu.Unlock()

	s.log.Debug(ctx, "tokens refreshed", "user_id", id.UserID)
	return nil
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = models.TokenPair{}
	s.identity = nil
	s.expiresAt = time.Time{}
}

func (s *Store) removeTokens(ctx context.Context) {
	if err := s.kv.Remove(ctx, storage.KeyAuthTokens); err != nil {
		s.log.Error(ctx, "failed to remove stored tokens", "error", err)
	}
}
