package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/feed"
	"github.com/sirpyerre/photogram/internal/core/signup"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, name, data, nil); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestRender_EveryPageParses(t *testing.T) {
	viewer := &domain.Identity{UID: "u1", DisplayName: "Ana"}
	pages := map[string]any{
		PageLogin:     LoginPage{Base: Base{Title: "Login"}},
		PageSignUp:    SignUpPage{Base: Base{Title: "Sign Up"}},
		PageProfile:   ProfilePage{Base: Base{Title: "ana"}, Profile: &domain.UserProfile{Username: "ana"}},
		PageDashboard: DashboardPage{Base: Base{Title: "Dashboard", Viewer: viewer}, Timeline: feed.NewPending().Render()},
		PageTimeline:  feed.NewLoaded(nil).Render(),
		PageNotFound:  NotFoundPage{Base: Base{Title: "Not Found"}, Path: "/nope"},
		PageError:     ErrorPage{Base: Base{Title: "Error"}, Code: 500, Message: "internal server error"},
	}
	for name, data := range pages {
		if out := render(t, name, data); out == "" {
			t.Errorf("%s rendered nothing", name)
		}
	}
}

func TestRender_UnknownPage(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, "nope", nil, nil); err == nil {
		t.Fatal("expected error for unknown page")
	}
}

func TestRender_DashboardShowsPlaceholders(t *testing.T) {
	out := render(t, PageDashboard, DashboardPage{
		Base:     Base{Title: "Dashboard", Viewer: &domain.Identity{UID: "u1", DisplayName: "Ana"}},
		Timeline: feed.NewPending().Render(),
	})
	if got := strings.Count(out, "photo placeholder"); got != feed.PlaceholderCount {
		t.Errorf("placeholders = %d, want %d", got, feed.PlaceholderCount)
	}
	if !strings.Contains(out, `href="/profile/Ana"`) {
		t.Error("expected nav link to the viewer's profile")
	}
}

func TestRender_TimelineStates(t *testing.T) {
	empty := render(t, PageTimeline, feed.NewLoaded(nil).Render())
	if !strings.Contains(empty, feed.EmptyMessage) {
		t.Errorf("empty timeline missing message: %s", empty)
	}

	items := []domain.FeedItem{
		{Post: domain.Post{DocID: "p2", ImageSrc: "/images/2.jpg", Caption: "second"}, Username: "bo"},
		{Post: domain.Post{DocID: "p1", ImageSrc: "/images/1.jpg", Caption: "first", Likes: []string{"u1"}}, Username: "cy", LikedByViewer: true},
	}
	out := render(t, PageTimeline, feed.NewLoaded(items).Render())
	i2, i1 := strings.Index(out, `id="photo-p2"`), strings.Index(out, `id="photo-p1"`)
	if i2 < 0 || i1 < 0 || i2 > i1 {
		t.Fatalf("entries missing or out of order: %s", out)
	}
	if !strings.Contains(out, "1 like (liked)") {
		t.Error("expected liked marker on p1")
	}
}

func TestRender_SignUpKeepsFieldsButNotPassword(t *testing.T) {
	out := render(t, PageSignUp, SignUpPage{
		Base:  Base{Title: "Sign Up"},
		Form:  signup.Form{Username: "ana", FullName: "Ana B", EmailAddress: "ana@x.io", Password: "secret1"},
		Error: "That username is already taken, please try another.",
	})
	if !strings.Contains(out, `value="Ana B"`) {
		t.Error("full name not echoed")
	}
	if strings.Contains(out, "secret1") {
		t.Error("password must never be echoed")
	}
	if !strings.Contains(out, "already taken") {
		t.Error("error message missing")
	}
}

func TestRender_DashboardLeavesPageOnRedirectedFetch(t *testing.T) {
	out := render(t, PageDashboard, DashboardPage{
		Base:     Base{Title: "Dashboard", Viewer: &domain.Identity{UID: "u1", DisplayName: "Ana"}},
		Timeline: feed.NewPending().Render(),
	})
	for _, want := range []string{"r.redirected", "!r.ok", "window.location.assign"} {
		if !strings.Contains(out, want) {
			t.Errorf("timeline fetch script missing %q", want)
		}
	}
}
