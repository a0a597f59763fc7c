package route

import "sync"

// State is the guard's rendering state for the current path.
type State int

const (
	Unevaluated State = iota
	Ready
	Redirecting
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Redirecting:
		return "redirecting"
	default:
		return "unevaluated"
	}
}

// Navigator performs the redirect a Guard asks for, replacing the current
// location rather than pushing a new one.
type Navigator interface {
	Replace(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Replace(target string) { f(target) }

// Guard gates every navigation. Content may be shown only while the state is
// Ready.
type Guard struct {
	mu    sync.Mutex
	nav   Navigator
	path  string
	state State
}

func NewGuard(nav Navigator) *Guard {
	return &Guard{nav: nav}
}

// Evaluate re-derives the state for path. A path change first drops the guard
// back to Unevaluated so nothing from the previous screen stays visible. When
// the decision is a redirect, the navigator is called after the guard's lock
// is released.
func (g *Guard) Evaluate(path string, authenticated bool) (State, Decision) {
	g.mu.Lock()
	if path != g.path {
		g.path = path
		g.state = Unevaluated
	}

	d := Decide(Classify(path), authenticated)
	if d.Redirect {
		g.state = Redirecting
	} else {
		g.state = Ready
	}
	state := g.state
	g.mu.Unlock()

	if d.Redirect && g.nav != nil {
		g.nav.Replace(d.Target)
	}
	return state, d
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Path returns the last evaluated path.
func (g *Guard) Path() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.path
}

// CanRender reports whether content for the current path may be shown.
func (g *Guard) CanRender() bool {
	return g.State() == Ready
}
