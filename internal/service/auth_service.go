package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrisense/internal/auth"
	apperrors "agrisense/internal/errors"
	"agrisense/internal/model"
	"agrisense/internal/session"
)

// LoginInput is what the login form submits.
type LoginInput struct {
	Email    string
	Password string
	Role     string
	Passkey  string
}

// AuthService handles sign-in, sign-up and session checks against the identity service.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (s *session.Session, warning string, err error)
	Register(ctx context.Context, email, password string) error
	CheckSession(ctx context.Context, accessToken string) (*auth.IdentityUser, error)
}

type authService struct {
	identity     auth.IdentityProvider
	history      HistoryService
	adminPasskey string
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(identity auth.IdentityProvider, history HistoryService, adminPasskey string, logger *zap.Logger) AuthService {
	return &authService{
		identity:     identity,
		history:      history,
		adminPasskey: adminPasskey,
		logger:       logger,
		now:          time.Now,
	}
}

// Login verifies credentials with the identity service, then the admin
// passkey when Admin is claimed, then records the login. A failed record
// does not fail the login; it comes back as a warning.
func (s *authService) Login(ctx context.Context, in LoginInput) (*session.Session, string, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, "", fmt.Errorf("%w: email", apperrors.ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, "", fmt.Errorf("%w: password", apperrors.ErrInvalidInput)
	}
	role := model.RoleUser
	if in.Role != "" {
		parsed, ok := model.ParseRole(in.Role)
		if !ok {
			return nil, "", fmt.Errorf("%w: role", apperrors.ErrInvalidInput)
		}
		role = parsed
	}

	identity, err := s.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		s.logger.Info("sign-in rejected", zap.String("email", in.Email), zap.Error(err))
		return nil, "", fmt.Errorf("%w: %w", apperrors.ErrAuth, err)
	}

	if role.IsAdmin() && subtle.ConstantTimeCompare([]byte(in.Passkey), []byte(s.adminPasskey)) != 1 {
		s.logger.Warn("admin passkey mismatch", zap.String("email", in.Email))
		return nil, "", apperrors.ErrInvalidPasskey
	}

	email := in.Email
	if identity.User.Email != "" {
		email = identity.User.Email
	}

	var warning string
	if err := s.history.RecordLogin(ctx, email, role, s.now()); err != nil {
		s.logger.Warn("login not recorded", zap.String("email", email), zap.Error(err))
		warning = apperrors.MsgLoginNotRecorded
	}

	return session.New(email, role, identity.AccessToken), warning, nil
}

// Register creates an account with the identity service. It starts no session.
func (s *authService) Register(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email", apperrors.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password", apperrors.ErrInvalidInput)
	}
	if err := s.identity.SignUp(ctx, email, password); err != nil {
		s.logger.Info("sign-up rejected", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrAuth, err)
	}
	return nil
}

// CheckSession asks the identity service whether accessToken is still valid.
func (s *authService) CheckSession(ctx context.Context, accessToken string) (*auth.IdentityUser, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAuth, auth.ErrNoSession)
	}
	user, err := s.identity.GetUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAuth, err)
	}
	return user, nil
}
