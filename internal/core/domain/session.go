package domain

// SessionState is the current identity of a client instance, or none.
// It is never partially populated.
type SessionState struct {
	Identity *Identity
}

// SignedIn reports whether the state carries an identity.
func (s SessionState) SignedIn() bool {
	return s.Identity != nil
}

// StateChange is one auth-state transition addressed to a client instance.
// A nil Identity means the client was signed out.
type StateChange struct {
	ClientID string    `json:"client_id"`
	Identity *Identity `json:"identity,omitempty"`
}
