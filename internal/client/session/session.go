// Package session holds the client's authentication state: the current
// user and bearer token, their persisted copies, and the state machine that
// validates a restored session on startup.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/client/models"
	"github.com/jobdeck/jobdeck-cli/internal/client/store"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// State is the session lifecycle phase.
type State int

const (
	// StateUnknown is the pre-Init state.
	StateUnknown State = iota
	// StateValidating means a restored session is being checked against
	// /auth/me; the identity on hand may be stale.
	StateValidating
	// StateAuthenticated means user and token are set.
	StateAuthenticated
	// StateAnonymous means no session.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Storage is the persisted key-value surface the session uses.
// *store.KVRepository implements it.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetPair writes two keys atomically; the token+user pair must never
	// be persisted half-updated.
	SetPair(ctx context.Context, key1 string, val1 []byte, key2 string, val2 []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the slice of the auth service the session depends on.
type Authenticator interface {
	Me(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
}

// Store is the injectable session service. All writers replace the
// token+user pair atomically under one mutex; Token is safe to call from
// the gateway on every outgoing request.
type Store struct {
	storage Storage
	auth    Authenticator
	log     logging.Logger

	mu       sync.RWMutex
	state    State
	user     models.User
	token    string
	watchers []func(State)
}

func New(storage Storage, auth Authenticator, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{storage: storage, auth: auth, log: log, state: StateUnknown}
}

// Init restores the persisted session and validates it against the backend.
//
// A restored pair moves the store to Authenticated immediately (stale) and
// then through Validating. A fresh identity from /auth/me confirms and
// refreshes the persisted copy. An authoritative rejection (401/403) clears
// everything. A transport failure keeps the stale session: a network blip
// must not log the user out.
func (s *Store) Init(ctx context.Context) error {
	tok, err := s.storage.Get(ctx, store.KeyAuthToken)
	if err != nil {
		return fmt.Errorf("session: read persisted token: %w", err)
	}
	rawUser, err := s.storage.Get(ctx, store.KeyAuthUser)
	if err != nil {
		return fmt.Errorf("session: read persisted user: %w", err)
	}

	if len(tok) == 0 || len(rawUser) == 0 {
		if len(tok) != 0 || len(rawUser) != 0 {
			// a half-present pair (e.g. an orphan token) would otherwise
			// be re-read on every startup
			s.clearPersisted(ctx)
		}
		s.setAnonymous()
		return nil
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.log.Warn(ctx, "persisted user unreadable, discarding session", "err", err)
		s.clearPersisted(ctx)
		s.setAnonymous()
		return nil
	}

	if tokenExpired(string(tok)) {
		s.log.Debug(ctx, "persisted token expired, skipping validation")
		s.clearPersisted(ctx)
		s.setAnonymous()
		return nil
	}

	s.set(StateValidating, user, string(tok))

	fresh, err := s.auth.Me(ctx)
	switch {
	case err == nil:
		s.set(StateAuthenticated, fresh, string(tok))
		s.persist(ctx, fresh, string(tok))
	case api.IsTransport(err):
		// keep the stale identity; the server was never reached
		s.log.Warn(ctx, "session validation unreachable, keeping stale session", "err", err)
		s.set(StateAuthenticated, user, string(tok))
	default:
		// authoritative rejection; the 401 path also lands here via the
		// gateway observer, clearing is idempotent
		s.clearPersisted(ctx)
		s.setAnonymous()
	}
	return nil
}

// Login installs a fresh identity and persists it.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	s.set(StateAuthenticated, user, token)
	return s.persist(ctx, user, token)
}

// Logout invalidates the session. The server-side call is best-effort:
// local state and persisted keys are cleared even if it fails.
func (s *Store) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.auth.Logout(ctx); err != nil {
			s.log.Warn(ctx, "server-side logout failed, clearing locally", "err", err)
		}
	}
	s.clearPersisted(ctx)
	s.setAnonymous()
}

// HandleUnauthorized reacts to the gateway's 401 notification: any request
// anywhere coming back 401 invalidates the whole session.
func (s *Store) HandleUnauthorized() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.clearPersisted(ctx)
	s.setAnonymous()
}

// UpdateUser replaces the cached user (e.g. with the server-reported credit
// balance after an unlock) without touching the token.
func (s *Store) UpdateUser(ctx context.Context, user models.User) {
	s.mu.Lock()
	if s.state != StateAuthenticated && s.state != StateValidating {
		s.mu.Unlock()
		return
	}
	s.user = user
	token := s.token
	s.mu.Unlock()
	s.persist(ctx, user, token)
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the session user, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated && s.state != StateValidating {
		return models.User{}, false
	}
	return s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated || s.state == StateValidating
}

// State returns the current lifecycle phase.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Watch registers fn to run after every state transition.
func (s *Store) Watch(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

func (s *Store) set(state State, user models.User, token string) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.token = token
	watchers := make([]func(State), len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(state)
	}
}

func (s *Store) setAnonymous() {
	s.set(StateAnonymous, models.User{}, "")
}

func (s *Store) persist(ctx context.Context, user models.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := s.storage.SetPair(ctx, store.KeyAuthToken, []byte(token), store.KeyAuthUser, raw); err != nil {
		return fmt.Errorf("session: persist identity: %w", err)
	}
	return nil
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.storage.Delete(ctx, store.KeyAuthToken); err != nil {
		s.log.Warn(ctx, "failed to clear persisted token", "err", err)
	}
	if err := s.storage.Delete(ctx, store.KeyAuthUser); err != nil {
		s.log.Warn(ctx, "failed to clear persisted user", "err", err)
	}
}

// tokenExpired does an unverified local parse purely to skip a validation
// round trip for a plainly expired JWT. Claims are never trusted for
// identity; /auth/me stays the authority for everything else.
func tokenExpired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false // opaque token: let the server decide
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
