package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

type stubAuthenticator struct {
	result *ports.AuthResult
	err    error
	calls  int
}

func (a *stubAuthenticator) Authenticate(_ context.Context, _, _ string) (*ports.AuthResult, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

type stubSessionStorage struct {
	record  *ports.SessionRecord
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (s *stubSessionStorage) Load(_ context.Context) (*ports.SessionRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.record, nil
}

func (s *stubSessionStorage) Save(_ context.Context, record ports.SessionRecord) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.record = &record
	return nil
}

func (s *stubSessionStorage) Clear(_ context.Context) error {
	s.clears++
	s.record = nil
	return nil
}

func approvedSeller() *domain.Identity {
	return &domain.Identity{
		ID:               "id-1",
		Email:            "seller@example.com",
		Role:             domain.RoleSeller,
		ProfileStatus:    domain.ProfileApproved,
		MembershipStatus: domain.MembershipActive,
		Verified:         true,
	}
}

func TestSessionStore_Initialize_Restores(t *testing.T) {
	storage := &stubSessionStorage{record: &ports.SessionRecord{Token: "tok", Identity: approvedSeller()}}
	store := NewSessionStore(&stubAuthenticator{}, storage, zerolog.Nop())

	if store.Settled() {
		t.Fatalf("store must not be settled before Initialize")
	}
	store.Initialize(context.Background())

	if !store.Settled() {
		t.Fatalf("store must be settled after Initialize")
	}
	if !store.IsAuthenticated() {
		t.Fatalf("persisted session must be restored")
	}
	if store.Token() != "tok" {
		t.Fatalf("token not restored: %q", store.Token())
	}
}

func TestSessionStore_Initialize_Empty(t *testing.T) {
	store := NewSessionStore(&stubAuthenticator{}, &stubSessionStorage{}, zerolog.Nop())
	store.Initialize(context.Background())

	if !store.Settled() {
		t.Fatalf("store must settle with nothing persisted")
	}
	if store.IsAuthenticated() {
		t.Fatalf("expected logged out")
	}
}

func TestSessionStore_Initialize_CorruptDataDegrades(t *testing.T) {
	storage := &stubSessionStorage{loadErr: errors.New("unexpected end of JSON input")}
	store := NewSessionStore(&stubAuthenticator{}, storage, zerolog.Nop())
	store.Initialize(context.Background())

	if !store.Settled() {
		t.Fatalf("corrupt data must still settle the store")
	}
	if store.IsAuthenticated() {
		t.Fatalf("corrupt data must degrade to logged out")
	}
}

func TestSessionStore_Login_DuplicatesDurableCopy(t *testing.T) {
	auth := &stubAuthenticator{result: &ports.AuthResult{Token: "tok", Identity: approvedSeller()}}
	storage := &stubSessionStorage{}
	store := NewSessionStore(auth, storage, zerolog.Nop())

	if err := store.Login(context.Background(), "seller@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if storage.saves != 1 {
		t.Fatalf("login must persist one durable copy, got %d", storage.saves)
	}
	if storage.record == nil || storage.record.Token != "tok" {
		t.Fatalf("persisted record wrong: %+v", storage.record)
	}
	if store.Current() == nil || store.Current().ID != "id-1" {
		t.Fatalf("in-memory identity wrong: %+v", store.Current())
	}
}

func TestSessionStore_Login_StorageFailureDoesNotFailLogin(t *testing.T) {
	auth := &stubAuthenticator{result: &ports.AuthResult{Token: "tok", Identity: approvedSeller()}}
	storage := &stubSessionStorage{saveErr: errors.New("redis down")}
	store := NewSessionStore(auth, storage, zerolog.Nop())

	if err := store.Login(context.Background(), "seller@example.com", "pw"); err != nil {
		t.Fatalf("login must succeed despite storage failure: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("in-memory session must be set")
	}
}

func TestSessionStore_Login_BackendError(t *testing.T) {
	auth := &stubAuthenticator{err: domain.ErrInvalidCredentials}
	store := NewSessionStore(auth, &stubSessionStorage{}, zerolog.Nop())

	err := store.Login(context.Background(), "x@example.com", "bad")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("failed login must not set a session")
	}
}

func TestSessionStore_Logout_ClearsBothCopies(t *testing.T) {
	auth := &stubAuthenticator{result: &ports.AuthResult{Token: "tok", Identity: approvedSeller()}}
	storage := &stubSessionStorage{}
	store := NewSessionStore(auth, storage, zerolog.Nop())

	_ = store.Login(context.Background(), "seller@example.com", "pw")
	store.Logout(context.Background())

	if store.IsAuthenticated() {
		t.Fatalf("logout must clear the in-memory session")
	}
	if store.Token() != "" {
		t.Fatalf("token must be cleared")
	}
	if storage.clears != 1 || storage.record != nil {
		t.Fatalf("durable copy must be cleared")
	}
}

func TestSessionStore_Flags(t *testing.T) {
	store := NewSessionStore(&stubAuthenticator{}, &stubSessionStorage{}, zerolog.Nop())

	// All flags false while logged out.
	if store.IsAuthenticated() || store.IsSeller() || store.IsBuyer() ||
		store.IsApproved() || store.IsPending() || store.IsRejected() || store.HasMembership() {
		t.Fatalf("flags must be false with no identity")
	}

	store.Adopt(context.Background(), &ports.AuthResult{Token: "tok", Identity: approvedSeller()})

	if !store.IsSeller() || store.IsBuyer() {
		t.Fatalf("role flags wrong")
	}
	if !store.IsApproved() || store.IsPending() || store.IsRejected() {
		t.Fatalf("profile flags wrong")
	}
	if !store.HasMembership() {
		t.Fatalf("membership flag wrong")
	}

	pending := approvedSeller()
	pending.Role = domain.RoleBuyer
	pending.ProfileStatus = domain.ProfilePending
	pending.MembershipStatus = domain.MembershipInactive
	store.Adopt(context.Background(), &ports.AuthResult{Token: "tok2", Identity: pending})

	if !store.IsBuyer() || !store.IsPending() || store.HasMembership() {
		t.Fatalf("flags must track the latest identity")
	}
}

func TestSessionStore_Subscribe(t *testing.T) {
	auth := &stubAuthenticator{result: &ports.AuthResult{Token: "tok", Identity: approvedSeller()}}
	store := NewSessionStore(auth, &stubSessionStorage{}, zerolog.Nop())

	var seen []*domain.Identity
	cancel := store.Subscribe(func(identity *domain.Identity) {
		seen = append(seen, identity)
	})

	_ = store.Login(context.Background(), "seller@example.com", "pw")
	store.Logout(context.Background())

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0] == nil || seen[1] != nil {
		t.Fatalf("expected identity then nil, got %+v", seen)
	}

	cancel()
	_ = store.Login(context.Background(), "seller@example.com", "pw")
	if len(seen) != 2 {
		t.Fatalf("cancelled observer must not fire")
	}
}
