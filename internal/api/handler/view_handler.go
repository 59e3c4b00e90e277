package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/photogram/internal/api/metrics"
	"github.com/sirpyerre/photogram/internal/api/views"
	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/feed"
	"github.com/sirpyerre/photogram/internal/core/router"
	"github.com/sirpyerre/photogram/internal/core/signup"
)

// ProfileFinder resolves public profiles by username.
type ProfileFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.UserProfile, error)
}

// FeedLoader loads timelines and profile photo grids.
type FeedLoader interface {
	Load(ctx context.Context, viewer *domain.Identity) feed.Timeline
	Photos(ctx context.Context, author *domain.UserProfile, viewer *domain.Identity) ([]domain.FeedItem, error)
}

// ViewHandler serves every page navigation. The router package decides which
// view a path selects and whether the current identity may see it.
type ViewHandler struct {
	profiles ProfileFinder
	feed     FeedLoader
}

func NewViewHandler(profiles ProfileFinder, feed FeedLoader) *ViewHandler {
	return &ViewHandler{profiles: profiles, feed: feed}
}

// Show handles GET on any page path.
func (h *ViewHandler) Show(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}
	viewer := inst.Context.Identity()

	sel := router.Dispatch(c.Request().URL.Path, viewer)
	if sel.Redirect() {
		metrics.RouteDecisionsTotal.WithLabelValues(string(sel.View), "redirect").Inc()
		return c.Redirect(http.StatusFound, sel.RedirectTo)
	}
	metrics.RouteDecisionsTotal.WithLabelValues(string(sel.View), "render").Inc()

	switch sel.View {
	case router.ViewLogin:
		return c.Render(http.StatusOK, views.PageLogin, views.LoginPage{
			Base: views.Base{Title: "Login", Viewer: viewer},
		})
	case router.ViewSignUp:
		return c.Render(http.StatusOK, views.PageSignUp, views.SignUpPage{
			Base: views.Base{Title: "Sign Up", Viewer: viewer},
			Form: signup.Form{},
		})
	case router.ViewProfile:
		return h.profile(c, sel.Params["id"], viewer)
	case router.ViewDashboard:
		return c.Render(http.StatusOK, views.PageDashboard, views.DashboardPage{
			Base:     views.Base{Title: "Dashboard", Viewer: viewer},
			Timeline: feed.NewPending().Render(),
		})
	case router.ViewTimeline:
		return h.timeline(c, viewer)
	default:
		return notFound(c, viewer)
	}
}

func (h *ViewHandler) profile(c echo.Context, id string, viewer *domain.Identity) error {
	ctx := c.Request().Context()
	username := strings.ToLower(id)

	p, err := h.profiles.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return notFound(c, viewer)
	}
	if err != nil {
		return err
	}

	photos, err := h.feed.Photos(ctx, p, viewer)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, views.PageProfile, views.ProfilePage{
		Base:    views.Base{Title: p.Username, Viewer: viewer},
		Profile: p,
		Photos:  photos,
	})
}

// timeline renders the loaded timeline fragment the dashboard fetches.
func (h *ViewHandler) timeline(c echo.Context, viewer *domain.Identity) error {
	start := time.Now()
	tl := h.feed.Load(c.Request().Context(), viewer)
	metrics.FeedLoadDuration.Observe(time.Since(start).Seconds())
	metrics.FeedLoadsTotal.WithLabelValues(string(tl.Status())).Inc()

	return c.Render(http.StatusOK, views.PageTimeline, tl.Render())
}

func notFound(c echo.Context, viewer *domain.Identity) error {
	return c.Render(http.StatusNotFound, views.PageNotFound, views.NotFoundPage{
		Base: views.Base{Title: "Not Found", Viewer: viewer},
		Path: c.Request().URL.Path,
	})
}
