package router

import "github.com/sirpyerre/photogram/internal/core/domain"

// Selection is the single outcome of dispatching a path: a redirect, a
// page, or the not-found fallback.
type Selection struct {
	View       View
	Params     map[string]string
	RedirectTo string
}

// Redirect reports whether the selection is a redirect.
func (s Selection) Redirect() bool { return s.RedirectTo != "" }

// Dispatch selects the view for path given the current identity.
func Dispatch(path string, identity *domain.Identity) Selection {
	for _, r := range Table {
		params, ok := match(r.Pattern, path, r.Exact)
		if !ok {
			continue
		}
		if r.Guarded {
			if d := Admit(identity, path); !d.Render() {
				return Selection{View: r.View, RedirectTo: d.RedirectTo}
			}
		}
		return Selection{View: r.View, Params: params}
	}
	return Selection{View: ViewNotFound}
}
