package domain

import "errors"

var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailInUse       = errors.New("email already in use")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrIncompleteForm   = errors.New("form is incomplete")
	ErrListenerStarted  = errors.New("listener already started")
	ErrListenerStopped  = errors.New("listener stopped")
	ErrInvalidClient    = errors.New("invalid client token")
)

// Auth error codes reported by the auth service.
const (
	AuthInvalidEmail      = "auth/invalid-email"
	AuthWeakPassword      = "auth/weak-password"
	AuthEmailAlreadyInUse = "auth/email-already-in-use"
	AuthUserNotFound      = "auth/user-not-found"
	AuthWrongPassword     = "auth/wrong-password"
	AuthInternalError     = "auth/internal-error"
	AuthMinPasswordLength = 6
)

// AuthError is a user-facing failure from the auth service. Its message is
// shown to the user verbatim.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NewAuthError returns the AuthError for a known code.
func NewAuthError(code string) *AuthError {
	msg, ok := authMessages[code]
	if !ok {
		msg = authMessages[AuthInternalError]
		code = AuthInternalError
	}
	return &AuthError{Code: code, Message: msg}
}

var authMessages = map[string]string{
	AuthInvalidEmail:      "The email address is badly formatted.",
	AuthWeakPassword:      "Password should be at least 6 characters",
	AuthEmailAlreadyInUse: "The email address is already in use by another account.",
	AuthUserNotFound:      "There is no user record corresponding to this identifier. The user may have been deleted.",
	AuthWrongPassword:     "The password is invalid or the user does not have a password.",
	AuthInternalError:     "An internal error has occurred.",
}
