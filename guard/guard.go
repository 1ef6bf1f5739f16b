// Package guard decides, before every navigation, whether the target
// route is allowed for the current session.
package guard

// SessionInfo is the slice of the session manager the guard consults.
type SessionInfo interface {
	IsAuthenticated() bool
	HasRole(name string) bool
	HasPermission(name string) bool
}

// Route is a navigable view with its declared access metadata.
type Route struct {
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	Title        string   `yaml:"title,omitempty"`
	Public       bool     `yaml:"public,omitempty"`
	RequiresAuth bool     `yaml:"requiresAuth,omitempty"`
	Roles        []string `yaml:"roles,omitempty"`
	Permissions  []string `yaml:"permissions,omitempty"`
}

// Action is the outcome of a guard evaluation.
type Action int

const (
	Allow Action = iota
	RedirectToLogin
	RedirectToDefault
)

// Decision carries the action and, for redirects, the route to go to.
type Decision struct {
	Action  Action
	RouteTo string
}

// Guard evaluates navigations. LoginRoute and DefaultRoute identify the
// public login view and the post-login landing page.
type Guard struct {
	session      SessionInfo
	loginRoute   string
	defaultRoute string
}

type GuardOption func(*Guard)

// WithRouteNames overrides the login and default landing route names.
func WithRouteNames(loginRoute, defaultRoute string) GuardOption {
	return func(g *Guard) {
		g.loginRoute = loginRoute
		g.defaultRoute = defaultRoute
	}
}

func New(session SessionInfo, options ...GuardOption) *Guard {
	g := &Guard{
		session:      session,
		loginRoute:   "login",
		defaultRoute: "dashboard",
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Decide evaluates a navigation from current to target.
func (g *Guard) Decide(current, target Route) Decision {
	// Identical source and target can never redirect; anything else
	// invites a loop.
	if current.Name == target.Name {
		return Decision{Action: Allow}
	}

	authenticated := g.session.IsAuthenticated()

	if target.RequiresAuth && !authenticated {
		if target.Name == g.loginRoute {
			return Decision{Action: Allow}
		}
		return Decision{Action: RedirectToLogin, RouteTo: g.loginRoute}
	}

	if authenticated && target.Public && target.Name == g.loginRoute {
		return Decision{Action: RedirectToDefault, RouteTo: g.defaultRoute}
	}

	if authenticated && !g.hasAccess(target) {
		if target.Name == g.defaultRoute {
			return Decision{Action: Allow}
		}
		return Decision{Action: RedirectToDefault, RouteTo: g.defaultRoute}
	}

	return Decision{Action: Allow}
}

// hasAccess applies the declared requirements: any listed role grants
// access, then any listed permission. A route declaring neither is open.
func (g *Guard) hasAccess(target Route) bool {
	if len(target.Roles) > 0 {
		granted := false
		for _, role := range target.Roles {
			if g.session.HasRole(role) {
				granted = true
				break
			}
		}
		if !granted {
			return false
		}
	}

	if len(target.Permissions) > 0 {
		for _, permission := range target.Permissions {
			if g.session.HasPermission(permission) {
				return true
			}
		}
		return false
	}

	return true
}
