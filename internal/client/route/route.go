// Package route decides which screens a visitor may see. Classify maps a path
// to its access class, Decide turns a class plus session state into a
// decision, and Guard keeps the per-navigation state machine.
package route

import (
	"net/url"
	"strings"
)

// Screens the client navigates to.
const (
	Home           = "/"
	Dashboard      = "/dashboard"
	Profile        = "/profile"
	Login          = "/auth/login"
	Register       = "/auth/register"
	ForgotPassword = "/auth/forgot-password"
	ResetPassword  = "/auth/reset-password"
	VerifyEmail    = "/auth/verify-email"
)

// AuthPrefix marks the screens meant only for signed-out visitors.
const AuthPrefix = "/auth"

// Class is the access class of a path.
type Class int

const (
	Protected Class = iota
	Public
	Auth
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case Auth:
		return "auth"
	default:
		return "protected"
	}
}

var publicPaths = map[string]struct{}{
	Home: {},
}

// StripQuery returns path without its query string or fragment.
func StripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}

// Classify reports the access class of path. The query string does not take
// part in the decision. AuthPrefix matches whole segments, so "/authors" is
// not an auth path. Anything not explicitly public and not under AuthPrefix
// is protected.
func Classify(path string) Class {
	p := StripQuery(path)
	if p == "" {
		p = Home
	}
	if _, ok := publicPaths[p]; ok {
		return Public
	}
	if p == AuthPrefix || strings.HasPrefix(p, AuthPrefix+"/") {
		return Auth
	}
	return Protected
}

// Decision is the outcome of evaluating one path.
type Decision struct {
	Redirect bool
	Target   string
}

// Decide applies the access table: signed-in visitors are sent away from auth
// screens to the dashboard, signed-out visitors are sent from protected
// screens to login, everything else renders.
func Decide(c Class, authenticated bool) Decision {
	switch {
	case authenticated && c == Auth:
		return Decision{Redirect: true, Target: Dashboard}
	case !authenticated && c == Protected:
		return Decision{Redirect: true, Target: Login}
	default:
		return Decision{}
	}
}

// WithEmail appends the email query parameter used by the verification and
// reset screens.
func WithEmail(path, email string) string {
	return path + "?email=" + url.QueryEscape(email)
}

// EmailFrom extracts the email query parameter from path, if any.
func EmailFrom(path string) string {
	i := strings.IndexByte(path, '?')
	if i < 0 {
		return ""
	}
	q := path[i+1:]
	if j := strings.IndexByte(q, '#'); j >= 0 {
		q = q[:j]
	}
	v, err := url.ParseQuery(q)
	if err != nil {
		return ""
	}
	return v.Get("email")
}
