package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/ports"
)

// AuthService implements identity creation, sign-in and the auth-state
// channel. State changes reach local subscribers synchronously and, when a
// relay is configured, other processes asynchronously.
type AuthService struct {
	repo     ports.IdentityRepository
	sessions ports.SessionStore
	relay    ports.StateRelay
	broker   *authBroker
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuthService returns an AuthService. relay may be nil for a single
// process deployment.
func NewAuthService(repo ports.IdentityRepository, sessions ports.SessionStore, relay ports.StateRelay, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
		relay:    relay,
		broker:   newAuthBroker(),
		validate: validator.New(),
		log:      log,
	}
}

func (s *AuthService) OnAuthStateChanged(ctx context.Context, clientID string, fn func(*domain.Identity)) (func(), error) {
	sub, cancel := s.broker.subscribe(clientID, fn)

	current, err := s.currentIdentity(ctx, clientID)
	if err != nil {
		cancel()
		return nil, err
	}
	sub.deliver(current, true)

	return cancel, nil
}

func (s *AuthService) CreateUserWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail)
	}
	if len(password) < domain.AuthMinPasswordLength {
		return nil, domain.NewAuthError(domain.AuthWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rec := &domain.IdentityRecord{
		UID:          newUID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil, domain.NewAuthError(domain.AuthEmailAlreadyInUse)
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	identity := rec.Identity()
	if err := s.signIn(ctx, clientID, identity); err != nil {
		return nil, err
	}

	s.log.Info().Str("uid", identity.UID).Str("client_id", clientID).Msg("identity created")
	return identity.Clone(), nil
}

func (s *AuthService) SignInWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail)
	}

	rec, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.NewAuthError(domain.AuthUserNotFound)
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewAuthError(domain.AuthWrongPassword)
	}

	identity := rec.Identity()
	if err := s.signIn(ctx, clientID, identity); err != nil {
		return nil, err
	}
	return identity.Clone(), nil
}

func (s *AuthService) SignOut(ctx context.Context, clientID string) error {
	if err := s.sessions.Unbind(ctx, clientID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.publish(ctx, domain.StateChange{ClientID: clientID})
	return nil
}

// UpdateProfile changes the identity's display name and notifies every
// client signed in as that identity.
func (s *AuthService) UpdateProfile(ctx context.Context, identity *domain.Identity, update domain.ProfileUpdate) (*domain.Identity, error) {
	if identity == nil {
		return nil, domain.ErrIdentityNotFound
	}
	if err := s.repo.UpdateDisplayName(ctx, identity.UID, update.DisplayName); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated := identity.Clone()
	updated.DisplayName = update.DisplayName

	clients, err := s.sessions.ClientsOf(ctx, identity.UID)
	if err != nil {
		s.log.Warn().Err(err).Str("uid", identity.UID).Msg("failed to list clients for profile update")
		return updated, nil
	}
	for _, clientID := range clients {
		s.publish(ctx, domain.StateChange{ClientID: clientID, Identity: updated})
	}
	return updated, nil
}

// DeleteUser signs out every client of the identity and removes it.
func (s *AuthService) DeleteUser(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrIdentityNotFound
	}

	clients, err := s.sessions.ClientsOf(ctx, identity.UID)
	if err != nil {
		return fmt.Errorf("delete user: list clients: %w", err)
	}
	for _, clientID := range clients {
		if err := s.sessions.Unbind(ctx, clientID); err != nil {
			return fmt.Errorf("delete user: unbind: %w", err)
		}
		s.publish(ctx, domain.StateChange{ClientID: clientID})
	}

	if err := s.repo.Delete(ctx, identity.UID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("uid", identity.UID).Msg("identity deleted")
	return nil
}

// HandleRemoteChange applies a change relayed from another process to the
// local subscribers only.
func (s *AuthService) HandleRemoteChange(_ context.Context, change domain.StateChange) {
	s.broker.publish(change)
}

func (s *AuthService) currentIdentity(ctx context.Context, clientID string) (*domain.Identity, error) {
	uid, err := s.sessions.Lookup(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if uid == "" {
		return nil, nil
	}

	rec, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			s.log.Warn().Str("uid", uid).Str("client_id", clientID).Msg("session bound to missing identity")
			return nil, nil
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return rec.Identity(), nil
}

func (s *AuthService) signIn(ctx context.Context, clientID string, identity *domain.Identity) error {
	if err := s.sessions.Bind(ctx, clientID, identity.UID); err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	s.publish(ctx, domain.StateChange{ClientID: clientID, Identity: identity})
	return nil
}

func (s *AuthService) publish(ctx context.Context, change domain.StateChange) {
	s.broker.publish(change)

	if s.relay == nil {
		return
	}
	if err := s.relay.Publish(ctx, change); err != nil {
		s.log.Warn().Err(err).Str("client_id", change.ClientID).Msg("failed to relay auth state change")
	}
}

func newUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
