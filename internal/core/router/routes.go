// Package router maps request paths to views and decides, per navigation,
// whether a view is reachable for the current identity. Everything here is
// pure: the same path and identity always produce the same selection.
package router

// Route paths.
const (
	Login     = "/login"
	SignUp    = "/signup"
	Logout    = "/logout"
	Profile   = "/profile/:id"
	Dashboard = "/dashboard"
	Timeline  = "/timeline"
)

// View names a page or fragment the dispatcher can select.
type View string

const (
	ViewLogin     View = "login"
	ViewSignUp    View = "signup"
	ViewProfile   View = "profile"
	ViewDashboard View = "dashboard"
	ViewTimeline  View = "timeline"
	ViewNotFound  View = "not_found"
)

// Route is one entry of the routing table.
type Route struct {
	Pattern string
	View    View
	// Exact requires the whole path to match; otherwise deeper paths match too.
	Exact bool
	// Guarded routes are only rendered for a signed-in identity.
	Guarded bool
}

// Table is evaluated in order; the first matching route wins.
var Table = []Route{
	{Pattern: Login, View: ViewLogin},
	{Pattern: SignUp, View: ViewSignUp},
	{Pattern: Profile, View: ViewProfile},
	{Pattern: Dashboard, View: ViewDashboard, Exact: true, Guarded: true},
	{Pattern: Timeline, View: ViewTimeline, Exact: true, Guarded: true},
}

// ProfilePath returns the public profile path for username.
func ProfilePath(username string) string {
	return "/profile/" + username
}
