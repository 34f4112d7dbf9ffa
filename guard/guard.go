// Package guard implements the client-side route guard: before a
// navigation resolves it asks the auth service whether the session cookie
// currently verifies, and redirects according to the route's declared
// requirement. The decision itself is a pure function; only the auth-state
// query touches the network.
package guard

import (
	"context"
	"sync"
	"sync/atomic"
)

// Action is what the guard tells the router to do with a navigation.
type Action int

const (
	// ActionProceed lets the navigation resolve
	ActionProceed Action = iota
	// ActionRedirectToLogin bounces an anonymous visitor off a protected route
	ActionRedirectToLogin
	// ActionRedirectToHome bounces an authenticated visitor off a public-only route
	ActionRedirectToHome
)

func (a Action) String() string {
	switch a {
	case ActionRedirectToLogin:
		return "redirect-to-login"
	case ActionRedirectToHome:
		return "redirect-to-home"
	default:
		return "proceed"
	}
}

// Requirement declares, statically per route, whether it needs an
// authenticated principal.
type Requirement struct {
	Path         string
	RequiresAuth bool
}

// AuthState is the server's answer to the auth-state query.
type AuthState struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// StateChecker queries the server for the current authentication state.
// It is the single injectable step in an otherwise pure decision.
type StateChecker interface {
	CheckAuthState(ctx context.Context) (AuthState, error)
}

// StateCheckerFunc adapts a function into a StateChecker.
type StateCheckerFunc func(ctx context.Context) (AuthState, error)

func (f StateCheckerFunc) CheckAuthState(ctx context.Context) (AuthState, error) {
	return f(ctx)
}

// Decide is the routing decision table. It holds on both the success and
// the failure path of the auth-state query; a failed query substitutes
// authenticated=false, which fails closed for protected routes and open
// for public ones.
func Decide(requiresAuth, authenticated bool) Action {
	switch {
	case requiresAuth && !authenticated:
		return ActionRedirectToLogin
	case !requiresAuth && authenticated:
		return ActionRedirectToHome
	default:
		return ActionProceed
	}
}

// Resolution is the outcome of one navigation attempt.
type Resolution struct {
	Path          string
	Action        Action
	RedirectTo    string
	Authenticated bool
	State         AuthState
	// Superseded marks a result that arrived after a newer navigation
	// started; it must not be applied to the router.
	Superseded bool
	// CheckErr records a failed auth-state query. The decision already
	// degraded to unauthenticated; this is for diagnostics only.
	CheckErr error
}

// Logger matches the authgate logger shape so the guard can share one.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Guard intercepts navigations. It is safe for concurrent use; rapid
// back-to-back navigations are not serialized, instead each carries a
// sequence number and only the newest may be applied.
type Guard struct {
	checker   StateChecker
	loginPath string
	homePath  string
	logger    Logger

	mu     sync.RWMutex
	routes map[string]Requirement

	seq atomic.Uint64
}

type Option func(*Guard)

// WithLoginPath overrides the anonymous redirect target (default /login).
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithHomePath overrides the authenticated landing page (default /profile).
func WithHomePath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.homePath = path
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New builds a Guard over the given checker.
func New(checker StateChecker, opts ...Option) *Guard {
	g := &Guard{
		checker:   checker,
		loginPath: "/login",
		homePath:  "/profile",
		logger:    nopLogger{},
		routes:    map[string]Requirement{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Register declares routes and their auth requirement. Unregistered paths
// default to RequiresAuth=false.
func (g *Guard) Register(routes ...Requirement) *Guard {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range routes {
		g.routes[r.Path] = r
	}
	return g
}

// Requirement looks up the declared requirement for a path.
func (g *Guard) Requirement(path string) Requirement {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if r, ok := g.routes[path]; ok {
		return r
	}
	return Requirement{Path: path}
}

// Navigate runs the guard for one navigation attempt. It blocks on the
// auth-state query; a transport failure degrades to unauthenticated rather
// than hanging or crashing the navigation. If a newer navigation started
// while the query was in flight the stale result comes back marked
// Superseded and the caller must discard it: last resolved wins, the
// in-flight query is not cancelled.
func (g *Guard) Navigate(ctx context.Context, path string) Resolution {
	seq := g.seq.Add(1)
	requirement := g.Requirement(path)

	state, err := g.checker.CheckAuthState(ctx)
	if err != nil {
		g.logger.Warn("auth state query failed for %s, treating as anonymous: %v", path, err)
		state = AuthState{Authenticated: false}
	}

	res := Resolution{
		Path:          path,
		Authenticated: state.Authenticated,
		State:         state,
		CheckErr:      err,
	}

	res.Action = Decide(requirement.RequiresAuth, state.Authenticated)
	switch res.Action {
	case ActionRedirectToLogin:
		res.RedirectTo = g.loginPath
	case ActionRedirectToHome:
		res.RedirectTo = g.homePath
	}

	if g.seq.Load() != seq {
		res.Superseded = true
		g.logger.Debug("navigation to %s superseded, action %s discarded", path, res.Action)
		return res
	}

	g.logger.Debug("navigation to %s resolved: %s", path, res.Action)
	return res
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
