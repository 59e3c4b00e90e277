package signup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sirpyerre/photogram/internal/core/domain"
	"github.com/sirpyerre/photogram/internal/core/router"
)

// Messages shown on failure.
const (
	UsernameTakenMessage = "That username is already taken, please try another."
	ProfileWriteMessage  = "We couldn't finish creating your account, please try again."
	UnavailableMessage   = "Something went wrong, please try again."
)

// ProfileStore is the part of the document store the flow writes to.
type ProfileStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, p *domain.UserProfile) error
	Delete(ctx context.Context, docID string) error
}

// Authenticator is the part of the auth service the flow uses.
type Authenticator interface {
	CreateUserWithEmailAndPassword(ctx context.Context, clientID, email, password string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, identity *domain.Identity, update domain.ProfileUpdate) (*domain.Identity, error)
	DeleteUser(ctx context.Context, identity *domain.Identity) error
}

// Result is the outcome of one submission.
type Result struct {
	*Machine
	// RedirectTo is set once the flow has succeeded.
	RedirectTo string
}

// Service runs submissions of the account creation flow.
type Service struct {
	profiles ProfileStore
	auth     Authenticator
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(profiles ProfileStore, auth Authenticator, log zerolog.Logger) *Service {
	return &Service{profiles: profiles, auth: auth, log: log, now: time.Now}
}

// Submit runs the flow for form on behalf of clientID. Remote calls happen
// in order: username check, identity creation, then the profile document
// and display name together. An incomplete form makes no remote call.
func (s *Service) Submit(ctx context.Context, clientID string, form Form) Result {
	m := NewMachine(form)
	if err := m.begin(); err != nil {
		return Result{Machine: m}
	}

	username := strings.ToLower(form.Username)

	taken, err := s.profiles.UsernameExists(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("username check failed")
		m.fail(UnavailableMessage, clearPassword)
		return Result{Machine: m}
	}
	if taken {
		m.fail(UsernameTakenMessage, clearUsername)
		return Result{Machine: m}
	}

	identity, err := s.auth.CreateUserWithEmailAndPassword(ctx, clientID, form.EmailAddress, form.Password)
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			m.fail(authErr.Message, clearAccountFields)
		} else {
			s.log.Error().Err(err).Msg("identity creation failed")
			m.fail(UnavailableMessage, clearAccountFields)
		}
		return Result{Machine: m}
	}

	profile := &domain.UserProfile{
		UserID:       identity.UID,
		Username:     username,
		FullName:     form.FullName,
		EmailAddress: strings.ToLower(form.EmailAddress),
		Following:    []string{},
		DateCreated:  s.now().UnixMilli(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.auth.UpdateProfile(gctx, identity, domain.ProfileUpdate{DisplayName: form.Username})
		return err
	})
	g.Go(func() error {
		return s.profiles.Create(gctx, profile)
	})

	if err := g.Wait(); err != nil {
		s.rollback(ctx, identity, profile, err)
		if errors.Is(err, domain.ErrUsernameTaken) {
			m.fail(UsernameTakenMessage, clearUsername)
		} else {
			m.fail(ProfileWriteMessage, clearPassword)
		}
		return Result{Machine: m}
	}

	s.log.Info().Str("uid", identity.UID).Str("username", username).Msg("account created")
	m.succeed(identity)
	return Result{Machine: m, RedirectTo: router.Dashboard}
}

// rollback removes whatever part of the account was written, so neither an
// orphaned identity nor an orphaned profile is left behind.
func (s *Service) rollback(ctx context.Context, identity *domain.Identity, profile *domain.UserProfile, cause error) {
	s.log.Warn().Err(cause).Str("uid", identity.UID).Msg("account setup failed, rolling back")

	ctx = context.WithoutCancel(ctx)
	if profile.DocID != "" {
		if err := s.profiles.Delete(ctx, profile.DocID); err != nil {
			s.log.Error().Err(err).Str("doc_id", profile.DocID).Msg("failed to delete orphaned profile")
		}
	}
	if err := s.auth.DeleteUser(ctx, identity); err != nil {
		s.log.Error().Err(err).Str("uid", identity.UID).Msg("failed to delete orphaned identity")
	}
}
