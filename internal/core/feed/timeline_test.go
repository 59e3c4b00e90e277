package feed

import (
	"errors"
	"testing"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

func item(docID string) domain.FeedItem {
	return domain.FeedItem{Post: domain.Post{DocID: docID}}
}

func TestRender_Pending(t *testing.T) {
	v := NewPending().Render()
	if v.Status != Pending || v.Placeholders != PlaceholderCount {
		t.Fatalf("unexpected pending view: %+v", v)
	}
	if v.Message != "" || v.Entries != nil {
		t.Fatalf("pending view must only carry placeholders: %+v", v)
	}
}

func TestRender_Empty(t *testing.T) {
	v := NewLoaded(nil).Render()
	if v.Status != LoadedEmpty || v.Message != "Follow people to see photos" {
		t.Fatalf("unexpected empty view: %+v", v)
	}
	if v.Placeholders != 0 || len(v.Entries) != 0 {
		t.Fatalf("empty view must not show placeholders or items: %+v", v)
	}
}

func TestRender_PreservesOrder(t *testing.T) {
	v := NewLoaded([]domain.FeedItem{item("a"), item("b")}).Render()

	if v.Status != LoadedNonEmpty || len(v.Entries) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Entries[0].Key != "a" || v.Entries[1].Key != "b" {
		t.Fatalf("expected order a,b got %s,%s", v.Entries[0].Key, v.Entries[1].Key)
	}
	if v.Placeholders != 0 || v.Message != "" {
		t.Fatalf("loaded view must only carry entries: %+v", v)
	}
}

func TestRender_DuplicateKeysKeepFirst(t *testing.T) {
	first := item("a")
	first.Caption = "first"
	second := item("a")
	second.Caption = "second"

	v := NewLoaded([]domain.FeedItem{first, item("b"), second}).Render()

	if len(v.Entries) != 2 || v.Entries[0].Item.Caption != "first" || v.Entries[1].Key != "b" {
		t.Fatalf("unexpected entries: %+v", v.Entries)
	}
	if v.Dropped != 1 {
		t.Fatalf("expected one dropped item, got %d", v.Dropped)
	}
}

func TestRender_Failed(t *testing.T) {
	tl := NewFailed(errors.New("boom"))
	v := tl.Render()
	if v.Status != LoadFailed || v.Message != FailedMessage || tl.Err() == nil {
		t.Fatalf("unexpected failed view: %+v", v)
	}
}

func TestItems_StopsEarly(t *testing.T) {
	tl := NewLoaded([]domain.FeedItem{item("a"), item("b"), item("c")})

	var got []string
	for it := range tl.Items() {
		got = append(got, it.DocID)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected iteration: %v", got)
	}
}
