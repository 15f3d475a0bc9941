package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/events"
)

// ErrInvalidCredentials is returned when the username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialChecker resolves a username/password pair to a user.
type CredentialChecker interface {
	Verify(username, password string) (*domain.User, bool)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
}

// AuthService coordinates the login handshake.
type AuthService struct {
	credentials CredentialChecker
	tokens      TokenIssuer
	ttl         time.Duration
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Credentials CredentialChecker
	Tokens      TokenIssuer
	TokenTTL    time.Duration
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		ttl:         deps.TokenTTL,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Login checks the credential pair and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, ok := s.credentials.Verify(username, password)
	if !ok {
		s.logger.Warn("login failed", zap.String("username", username))
		s.publish(ctx, events.New(domain.ActivityLoginFailed, "", events.LoginPayload{Username: username}))
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		s.logger.Error("token issue failed", zap.String("user_id", user.ID), zap.Error(err))
		return "", time.Time{}, err
	}

	s.logger.Info("token issued", zap.String("user_id", user.ID), zap.Time("expires_at", exp))
	s.publish(ctx, events.New(domain.ActivityLoginSucceeded, user.ID, events.LoginPayload{Username: user.Username}))
	return token, exp, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
