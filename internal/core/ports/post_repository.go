package ports

import (
	"context"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// PostRepository reads the "photos" collection. Results are ordered newest
// first by the store.
type PostRepository interface {
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Post, error)
}
