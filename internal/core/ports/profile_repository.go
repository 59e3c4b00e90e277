package ports

import (
	"context"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// ProfileRepository reads and writes documents of the "users" collection.
type ProfileRepository interface {
	// UsernameExists expects an already lowercased username.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// Create stores p and sets its DocID. It returns domain.ErrUsernameTaken
	// when the unique username index rejects the write.
	Create(ctx context.Context, p *domain.UserProfile) error
	Delete(ctx context.Context, docID string) error
	FindByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	FindByUsername(ctx context.Context, username string) (*domain.UserProfile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.UserProfile, error)
}
