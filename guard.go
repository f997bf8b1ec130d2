package console

import "context"

// Route describes a navigable destination. RequiresAuth marks it as gated.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
}

// Decision is the guard's verdict for one transition. The zero value allows
// the transition; otherwise RedirectTo names the fallback route.
type Decision struct {
	RedirectTo string
}

func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

// Proceed allows the transition unchanged.
var Proceed = Decision{}

// DefaultLoginRoute is where gated transitions land without a credential.
const DefaultLoginRoute = "login"

// Guard gates route transitions on authentication state and repairs the
// in-memory session after a cold load.
type Guard struct {
	session    *SessionStore
	storage    Storage
	logger     Logger
	loginRoute string
}

func NewGuard(session *SessionStore, storage Storage) *Guard {
	return &Guard{
		session:    session,
		storage:    storage,
		logger:     defLogger{},
		loginRoute: DefaultLoginRoute,
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	g.logger = logger
	return g
}

func (g *Guard) WithLoginRoute(name string) *Guard {
	g.loginRoute = name
	return g
}

// BeforeEach is evaluated once per transition, before it commits:
//
//  1. A gated destination with no stored token redirects to login.
//  2. A stored token with no in-memory profile is a cold load: state is
//     restored from storage synchronously, then a fresh profile is
//     requested in the background. The transition does not wait for the
//     refresh, so a stale profile may render until it lands; if the refresh
//     fails the stored snapshot is dropped as invalid.
//  3. Anything else proceeds.
func (g *Guard) BeforeEach(ctx context.Context, to Route) Decision {
	token, hasToken := g.storage.Get(StorageKeyToken)
	hasToken = hasToken && token != ""

	if to.RequiresAuth && !hasToken {
		g.logger.Debug("redirecting %q to %q: no stored credential", to.Name, g.loginRoute)
		return Decision{RedirectTo: g.loginRoute}
	}

	if hasToken && g.session.Current() == nil {
		g.session.RestoreFromLocal()
		go g.repair(context.WithoutCancel(ctx))
	}

	return Proceed
}

// repair refreshes the profile behind an in-flight transition. A failed
// refresh means the stored token is stale, so the whole snapshot is dropped
// and the next gated transition lands on login.
func (g *Guard) repair(ctx context.Context) {
	if err := g.session.FetchProfile(ctx); err != nil {
		logRichError(g.logger, "session repair failed", err)
		if err := g.storage.Delete(StorageKeyToken, StorageKeyProfile); err != nil {
			g.logger.Error("unable to clear stale session: %v", err)
		}
	}
}
