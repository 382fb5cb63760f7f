package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// Service coordinates the identity client, the local session store and the
// session context. Every mutation is saved to the store and published to
// the context's subscribers.
type Service struct {
	client  *Client
	store   core.SessionStore
	session *SessionContext
	logger  *zap.Logger
}

// NewService creates an auth service. The session context is seeded from
// the store's persisted session (load-on-init).
func NewService(client *Client, store core.SessionStore, logger *zap.Logger) (*Service, error) {
	persisted, err := store.Load()
	if err != nil {
		return nil, err
	}

	return &Service{
		client:  client,
		store:   store,
		session: NewSessionContext(persisted),
		logger:  logger,
	}, nil
}

// Session returns the session context for subscription and reads.
func (s *Service) Session() *SessionContext {
	return s.session
}

// Login signs in with the identity provider and persists the session.
func (s *Service) Login(ctx context.Context, creds Credentials) (*core.Session, error) {
	identity, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(identity)
}

// Signup creates an account with the identity provider and persists the
// resulting session.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*core.Session, error) {
	identity, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(identity)
}

// Profile fetches the account profile using the active session.
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	current := s.session.Current()
	if current.Expired(time.Now()) {
		return nil, ErrNotAuthenticated
	}
	return s.client.FetchProfile(ctx, current.AccessToken)
}

// SetAvatarURL records a freshly uploaded avatar URL on the session.
func (s *Service) SetAvatarURL(url string) error {
	current := s.session.Current()
	if current == nil {
		return ErrNotAuthenticated
	}

	updated := *current
	updated.AvatarURL = url
	if err := s.store.Save(&updated); err != nil {
		return err
	}
	s.session.Set(&updated)
	return nil
}

// Logout clears the persisted session and signs the context out.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.session.Set(nil)
	return nil
}

// establish converts an identity response into a persisted session.
func (s *Service) establish(identity *identityResponse) (*core.Session, error) {
	expiry, err := TokenExpiry(identity.AccessToken)
	if err != nil {
		// A token the client cannot parse is still usable; the provider
		// will reject it when it actually expires.
		s.logger.Warn("Could not determine token expiry", zap.Error(err))
		expiry = time.Time{}
	}

	session := &core.Session{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AccessToken: identity.AccessToken,
		ExpiresAt:   expiry,
	}

	if err := s.store.Save(session); err != nil {
		return nil, err
	}
	s.session.Set(session)

	s.logger.Info("Session established", zap.String("email", session.Email))
	return session, nil
}
