package router

import (
	"testing"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

func TestAdmit_NoIdentityRedirects(t *testing.T) {
	paths := []string{"/dashboard", "/timeline", "/", "/signup", "/anything/else", "", "/DASHBOARD/"}
	for _, p := range paths {
		if d := Admit(nil, p); d.Render() || d.RedirectTo != Login {
			t.Errorf("Admit(nil, %q) = %+v, want redirect to %s", p, d, Login)
		}
	}
}

func TestAdmit_NoIdentityPublicPaths(t *testing.T) {
	for _, p := range []string{"/login", "/login/", "/profile/alice", "/Profile/alice/photos"} {
		if d := Admit(nil, p); !d.Render() {
			t.Errorf("Admit(nil, %q) = %+v, want render", p, d)
		}
	}
	if d := Admit(nil, "/profile"); d.Render() {
		t.Errorf("profile without id must not be public")
	}
}

func TestAdmit_IdentityRenders(t *testing.T) {
	id := &domain.Identity{UID: "u1"}
	for _, p := range []string{Dashboard, Timeline, "/nowhere"} {
		if d := Admit(id, p); !d.Render() {
			t.Errorf("Admit(id, %q) = %+v, want render", p, d)
		}
	}
}

func TestAdmit_Idempotent(t *testing.T) {
	id := &domain.Identity{UID: "u1"}
	for _, ident := range []*domain.Identity{nil, id} {
		first := Admit(ident, Dashboard)
		second := Admit(ident, Dashboard)
		if first != second {
			t.Fatalf("Admit not idempotent: %+v vs %+v", first, second)
		}
	}
	if id.UID != "u1" {
		t.Fatalf("identity mutated")
	}
}
