package feed

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// ProfileReader reads documents of the "users" collection.
type ProfileReader interface {
	FindByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.UserProfile, error)
}

// PostReader reads documents of the "photos" collection, newest first.
type PostReader interface {
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Post, error)
}

// Loader builds timelines from the viewer's social graph: the photos of the
// users the viewer follows.
type Loader struct {
	profiles ProfileReader
	posts    PostReader
	log      zerolog.Logger
}

func NewLoader(profiles ProfileReader, posts PostReader, log zerolog.Logger) *Loader {
	return &Loader{profiles: profiles, posts: posts, log: log}
}

// Load returns the viewer's timeline. Failures produce a failed timeline
// rather than an error.
func (l *Loader) Load(ctx context.Context, viewer *domain.Identity) Timeline {
	items, err := l.load(ctx, viewer)
	if err != nil {
		l.log.Error().Err(err).Msg("feed load failed")
		return NewFailed(err)
	}
	if dups := duplicateIDs(items); len(dups) > 0 {
		l.log.Warn().Strs("doc_ids", dups).Str("uid", viewer.UID).Msg("store returned repeated photo ids; later copies are not rendered")
	}
	return NewLoaded(items)
}

// Photos returns the items posted by one user, as seen by viewer (which may
// be nil).
func (l *Loader) Photos(ctx context.Context, author *domain.UserProfile, viewer *domain.Identity) ([]domain.FeedItem, error) {
	posts, err := l.posts.FindByUserIDs(ctx, []string{author.UserID})
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	names := map[string]string{author.UserID: author.Username}
	return toItems(posts, names, viewer), nil
}

func (l *Loader) load(ctx context.Context, viewer *domain.Identity) ([]domain.FeedItem, error) {
	if viewer == nil {
		return nil, domain.ErrIdentityNotFound
	}

	profile, err := l.profiles.FindByUserID(ctx, viewer.UID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load viewer profile: %w", err)
	}
	if len(profile.Following) == 0 {
		return nil, nil
	}

	posts, err := l.posts.FindByUserIDs(ctx, profile.Following)
	if err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	authorIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		if !slices.Contains(authorIDs, p.UserID) {
			authorIDs = append(authorIDs, p.UserID)
		}
	}
	authors, err := l.profiles.FindByUserIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	names := make(map[string]string, len(authors))
	for _, a := range authors {
		names[a.UserID] = a.Username
	}

	return toItems(posts, names, viewer), nil
}

func toItems(posts []*domain.Post, names map[string]string, viewer *domain.Identity) []domain.FeedItem {
	items := make([]domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := domain.FeedItem{Post: *p, Username: names[p.UserID]}
		if viewer != nil {
			item.LikedByViewer = slices.Contains(p.Likes, viewer.UID)
		}
		items = append(items, item)
	}
	return items
}

// duplicateIDs lists document ids that occur more than once, in order of
// their second occurrence.
func duplicateIDs(items []domain.FeedItem) []string {
	seen := make(map[string]int, len(items))
	var dups []string
	for _, it := range items {
		seen[it.DocID]++
		if seen[it.DocID] == 2 {
			dups = append(dups, it.DocID)
		}
	}
	return dups
}
