// Package views renders the HTML pages of the service with html/template.
// Each page is parsed on first use and cached for the life of the process.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/feed"
	"github.com/sirpyerre/photogram/internal/core/router"
	"github.com/sirpyerre/photogram/internal/core/signup"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Renderer.Render.
const (
	PageLogin     = "login"
	PageSignUp    = "signup"
	PageProfile   = "profile"
	PageDashboard = "dashboard"
	PageTimeline  = "timeline"
	PageNotFound  = "not_found"
	PageError     = "error"
)

// Base carries what the layout needs on every full page.
type Base struct {
	Title  string
	Viewer *domain.Identity
}

type LoginPage struct {
	Base
	Email string
	Error string
}

type SignUpPage struct {
	Base
	Form  signup.Form
	Error string
}

type ProfilePage struct {
	Base
	Profile *domain.UserProfile
	Photos  []domain.FeedItem
}

type DashboardPage struct {
	Base
	Timeline feed.View
}

type NotFoundPage struct {
	Base
	Path string
}

type ErrorPage struct {
	Base
	Code    int
	Message string
}

type page struct {
	files []string
	entry string

	once sync.Once
	tmpl *template.Template
	err  error
}

func (p *page) load() (*template.Template, error) {
	p.once.Do(func() {
		paths := make([]string, len(p.files))
		for i, f := range p.files {
			paths[i] = "templates/" + f
		}
		p.tmpl, p.err = template.New(p.entry).Funcs(funcs).ParseFS(files, paths...)
	})
	return p.tmpl, p.err
}

var funcs = template.FuncMap{
	"profilePath": router.ProfilePath,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*page
}

func NewRenderer() *Renderer {
	full := func(content ...string) *page {
		return &page{files: append([]string{"layout.html"}, content...), entry: "layout"}
	}
	return &Renderer{pages: map[string]*page{
		PageLogin:     full("login.html"),
		PageSignUp:    full("signup.html"),
		PageProfile:   full("profile.html"),
		PageDashboard: full("dashboard.html", "timeline.html"),
		PageNotFound:  full("not_found.html"),
		PageError:     full("error.html"),
		PageTimeline:  {files: []string{"timeline.html"}, entry: "timeline"},
	}}
}

// Render executes the named page with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	p, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	tmpl, err := p.load()
	if err != nil {
		return fmt.Errorf("views: parse %s: %w", name, err)
	}
	return tmpl.ExecuteTemplate(w, p.entry, data)
}
