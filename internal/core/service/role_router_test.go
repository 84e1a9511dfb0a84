package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

func routerWith(identity *domain.Identity) *RoleRouter {
	store := NewSessionStore(&stubAuthenticator{}, &stubSessionStorage{}, zerolog.Nop())
	store.Initialize(context.Background())
	if identity != nil {
		store.Adopt(context.Background(), &ports.AuthResult{Token: "tok", Identity: identity})
	}
	return NewRoleRouter(store)
}

func TestRoleRouter_NoOpBeforeSettled(t *testing.T) {
	store := NewSessionStore(&stubAuthenticator{}, &stubSessionStorage{}, zerolog.Nop())
	router := NewRoleRouter(store)

	dest, redirect := router.Resolve(RouteSellerDashboard)
	if redirect {
		t.Fatalf("unsettled session must never redirect")
	}
	if dest != RouteSellerDashboard {
		t.Fatalf("unsettled resolution must return the current route, got %s", dest)
	}
}

func TestRoleRouter_UnauthenticatedToLogin(t *testing.T) {
	router := routerWith(nil)

	dest, redirect := router.Resolve(RouteBuyerDashboard)
	if !redirect || dest != RouteLogin {
		t.Fatalf("expected redirect to login, got %s (redirect=%v)", dest, redirect)
	}

	// Already on login: no redirect loop.
	dest, redirect = router.Resolve(RouteLogin)
	if redirect || dest != RouteLogin {
		t.Fatalf("login page must be stable, got %s (redirect=%v)", dest, redirect)
	}
}

func TestRoleRouter_PendingConfinement(t *testing.T) {
	pending := &domain.Identity{ID: "id-1", Role: domain.RoleSeller, ProfileStatus: domain.ProfilePending}
	router := routerWith(pending)

	dest, redirect := router.Resolve(RouteSellerDashboard)
	if !redirect || dest != RoutePendingReview {
		t.Fatalf("pending accounts must be confined, got %s (redirect=%v)", dest, redirect)
	}

	// The pending page checks only "still pending" so it cannot oscillate.
	dest, redirect = router.Resolve(RoutePendingReview)
	if redirect || dest != RoutePendingReview {
		t.Fatalf("pending page must be stable, got %s (redirect=%v)", dest, redirect)
	}
}

func TestRoleRouter_RejectedRoutesToPendingPage(t *testing.T) {
	rejected := &domain.Identity{ID: "id-1", Role: domain.RoleBuyer, ProfileStatus: domain.ProfileRejected}
	router := routerWith(rejected)

	dest, _ := router.Resolve(RouteBuyerDashboard)
	if dest != RoutePendingReview {
		t.Fatalf("rejected accounts route to the review page, got %s", dest)
	}
}

func TestRoleRouter_ApprovedDashboards(t *testing.T) {
	seller := &domain.Identity{ID: "id-1", Role: domain.RoleSeller, ProfileStatus: domain.ProfileApproved}
	router := routerWith(seller)

	dest, redirect := router.Resolve(RouteLogin)
	if !redirect || dest != RouteSellerDashboard {
		t.Fatalf("approved seller must land on the seller dashboard, got %s", dest)
	}

	// Idempotent: resolving the destination again is a no-op.
	dest, redirect = router.Resolve(RouteSellerDashboard)
	if redirect || dest != RouteSellerDashboard {
		t.Fatalf("destination must be stable, got %s (redirect=%v)", dest, redirect)
	}

	buyer := &domain.Identity{ID: "id-2", Role: domain.RoleBuyer, ProfileStatus: domain.ProfileApproved}
	router = routerWith(buyer)
	if dest := router.Destination(); dest != RouteBuyerDashboard {
		t.Fatalf("approved buyer must land on the buyer dashboard, got %s", dest)
	}
}

func TestDestinationFor(t *testing.T) {
	if dest := DestinationFor(nil); dest != RouteLogin {
		t.Fatalf("nil identity must route to login, got %s", dest)
	}

	pending := &domain.Identity{Role: domain.RoleBuyer, ProfileStatus: domain.ProfilePending}
	if dest := DestinationFor(pending); dest != RoutePendingReview {
		t.Fatalf("pending must route to review, got %s", dest)
	}

	seller := &domain.Identity{Role: domain.RoleSeller, ProfileStatus: domain.ProfileApproved}
	if dest := DestinationFor(seller); dest != RouteSellerDashboard {
		t.Fatalf("approved seller must route to seller dashboard, got %s", dest)
	}
}
