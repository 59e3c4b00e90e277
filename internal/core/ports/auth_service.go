package ports

import (
	"context"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// AuthService is the identity backend consumed by the session listener and
// the account flows.
type AuthService interface {
	// OnAuthStateChanged registers fn for clientID. The current state is
	// delivered before the call returns; later changes follow in order.
	// The returned func unregisters fn.
	OnAuthStateChanged(ctx context.Context, clientID string, fn func(*domain.Identity)) (func(), error)
	CreateUserWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error)
	SignInWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context, clientID string) error
	UpdateProfile(ctx context.Context, identity *domain.Identity, update domain.ProfileUpdate) (*domain.Identity, error)
	DeleteUser(ctx context.Context, identity *domain.Identity) error
}
