package ports

import (
	"context"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// IdentityRepository persists auth-service identity records.
type IdentityRepository interface {
	// Create returns domain.ErrEmailInUse when the email is already registered.
	Create(ctx context.Context, rec *domain.IdentityRecord) error
	FindByEmail(ctx context.Context, email string) (*domain.IdentityRecord, error)
	FindByUID(ctx context.Context, uid string) (*domain.IdentityRecord, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	Delete(ctx context.Context, uid string) error
}
