package ports

import "context"

// SessionStore binds client instances to signed-in identities.
type SessionStore interface {
	Bind(ctx context.Context, clientID, uid string) error
	// Lookup returns the uid bound to clientID, or "" when signed out.
	Lookup(ctx context.Context, clientID string) (string, error)
	Unbind(ctx context.Context, clientID string) error
	// ClientsOf lists the client ids currently bound to uid.
	ClientsOf(ctx context.Context, uid string) ([]string, error)
}
