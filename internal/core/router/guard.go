package router

import "github.com/sirpyerre/photogram/internal/core/domain"

// Decision is the outcome of a guard check. An empty RedirectTo means the
// requested view may be rendered.
type Decision struct {
	RedirectTo string
}

// Render reports whether the requested view may be rendered.
func (d Decision) Render() bool { return d.RedirectTo == "" }

// Admit decides whether path is reachable for identity. Without an identity
// every path redirects to the login page, except the login page itself and
// public profiles.
func Admit(identity *domain.Identity, path string) Decision {
	if identity != nil {
		return Decision{}
	}
	if _, ok := match(Login, path, false); ok {
		return Decision{}
	}
	if _, ok := match(Profile, path, false); ok {
		return Decision{}
	}
	return Decision{RedirectTo: Login}
}
