package service

import "github.com/b2blink/marketplace-api/internal/core/domain"

// Route is a navigable destination in the marketplace frontend.
type Route string

const (
	RouteLogin           Route = "/login"
	RoutePendingReview   Route = "/dashboard/pending"
	RouteSellerDashboard Route = "/dashboard/seller"
	RouteBuyerDashboard  Route = "/dashboard/buyer"
	RouteCompanySetup    Route = "/company/setup"
)

// RoleRouter decides, per page load, where the current identity belongs:
// login when unauthenticated, the pending page while under review, and the
// role's dashboard once approved. Resolution is a no-op until the session
// store has settled, so a still-loading session never triggers a redirect.
type RoleRouter struct {
	sessions *SessionStore
}

func NewRoleRouter(sessions *SessionStore) *RoleRouter {
	return &RoleRouter{sessions: sessions}
}

// Resolve returns the destination for the given current route and whether a
// redirect is needed. A page already matching its destination resolves to
// itself with no redirect, and the pending page re-checks only "still
// pending" so it cannot oscillate with the full role logic.
func (r *RoleRouter) Resolve(current Route) (Route, bool) {
	s := r.sessions
	if !s.Settled() {
		return current, false
	}

	if !s.IsAuthenticated() {
		return RouteLogin, current != RouteLogin
	}

	// The pending page guards only its own condition.
	if current == RoutePendingReview && s.IsPending() {
		return current, false
	}

	dest := r.destination()
	return dest, dest != current
}

// Destination returns the identity's home destination, ignoring the current
// route. Used by the dashboard entry point, which always redirects once.
func (r *RoleRouter) Destination() Route {
	if !r.sessions.Settled() || !r.sessions.IsAuthenticated() {
		return RouteLogin
	}
	return r.destination()
}

func (r *RoleRouter) destination() Route {
	return DestinationFor(r.sessions.Current())
}

// DestinationFor resolves the home destination for an identity loaded outside
// a session store, e.g. from a bearer token. Nil routes to login.
func DestinationFor(identity *domain.Identity) Route {
	switch {
	case identity == nil:
		return RouteLogin
	case identity.ProfileStatus == domain.ProfilePending,
		identity.ProfileStatus == domain.ProfileRejected:
		return RoutePendingReview
	case identity.Role == domain.RoleSeller:
		return RouteSellerDashboard
	default:
		return RouteBuyerDashboard
	}
}
