package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

// Authenticator is the slice of the identity backend the session store needs.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

// SessionObserver is invoked synchronously whenever the current identity is
// set or cleared. A nil identity means logged out.
type SessionObserver func(identity *domain.Identity)

// SessionStore is the single source of truth for "who is logged in". It holds
// the authenticated pair in memory and duplicates it into durable storage so
// a restart does not force re-login. All derived flags are recomputed from
// the current identity on every read and are false when none is present.
//
// Login, Logout, and Initialize are observed in completion order: the last
// write to the in-memory identity wins, with no merge semantics.
type SessionStore struct {
	auth    Authenticator
	storage ports.SessionStorage
	log     zerolog.Logger

	mu        sync.Mutex
	token     string
	identity  *domain.Identity
	settled   bool
	observers map[int]SessionObserver
	nextObs   int
}

// NewSessionStore returns an uninitialized store. Call Initialize before
// reading any flags; Settled reports whether that has happened.
func NewSessionStore(auth Authenticator, storage ports.SessionStorage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:      auth,
		storage:   storage,
		log:       log,
		observers: make(map[int]SessionObserver),
	}
}

// Initialize restores a previously saved session. Three states are tolerated:
// an identity already loaded in memory is kept as-is, a persisted pair is
// restored, and nothing at all means logged out. Malformed persisted data is
// logged and degrades to logged out; Initialize never fails.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.mu.Lock()

	if s.identity != nil {
		s.settled = true
		s.mu.Unlock()
		return
	}

	record, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session restore failed, starting logged out")
		s.settled = true
		s.mu.Unlock()
		return
	}

	if record == nil || record.Identity == nil || record.Token == "" {
		s.settled = true
		s.mu.Unlock()
		s.notify(nil)
		return
	}

	s.token = record.Token
	s.identity = record.Identity
	s.settled = true
	identity := s.identity
	s.mu.Unlock()

	s.notify(identity)
}

// Login exchanges credentials for a session. On success the pair is held in
// memory and duplicated into durable storage; a storage failure is logged but
// does not fail the login. Backend failures come back as typed errors.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	result, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = result.Token
	s.identity = result.Identity
	s.settled = true
	s.mu.Unlock()

	if err := s.storage.Save(ctx, ports.SessionRecord{Token: result.Token, Identity: result.Identity}); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session copy")
	}

	s.notify(result.Identity)
	return nil
}

// Adopt installs an already-authenticated pair, e.g. after OTP redemption.
// Persistence follows the same best-effort rule as Login.
func (s *SessionStore) Adopt(ctx context.Context, result *ports.AuthResult) {
	s.mu.Lock()
	s.token = result.Token
	s.identity = result.Identity
	s.settled = true
	s.mu.Unlock()

	if err := s.storage.Save(ctx, ports.SessionRecord{Token: result.Token, Identity: result.Identity}); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session copy")
	}

	s.notify(result.Identity)
}

// Logout clears both the in-memory session and the durable copy. Storage
// errors are swallowed; logout always succeeds.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}

	s.notify(nil)
}

// Subscribe registers an observer for identity changes. The returned cancel
// func removes it.
func (s *SessionStore) Subscribe(fn SessionObserver) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) notify(identity *domain.Identity) {
	s.mu.Lock()
	fns := make([]SessionObserver, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// Settled reports whether the initial restore has completed. Consumers that
// redirect on session state must not act before this is true.
func (s *SessionStore) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Current returns the identity held in memory, or nil when logged out.
func (s *SessionStore) Current() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Token returns the session token, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Current() != nil
}

func (s *SessionStore) IsSeller() bool {
	i := s.Current()
	return i != nil && i.Role == domain.RoleSeller
}

func (s *SessionStore) IsBuyer() bool {
	i := s.Current()
	return i != nil && i.Role == domain.RoleBuyer
}

func (s *SessionStore) IsApproved() bool {
	i := s.Current()
	return i != nil && i.ProfileStatus == domain.ProfileApproved
}

func (s *SessionStore) IsPending() bool {
	i := s.Current()
	return i != nil && i.ProfileStatus == domain.ProfilePending
}

func (s *SessionStore) IsRejected() bool {
	i := s.Current()
	return i != nil && i.ProfileStatus == domain.ProfileRejected
}

func (s *SessionStore) HasMembership() bool {
	i := s.Current()
	return i != nil && i.MembershipStatus == domain.MembershipActive
}
