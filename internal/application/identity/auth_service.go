package identity

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AuthService issues tokens for the administrator console and the
// partner cabinet.
type AuthService struct {
	profiles identity.ProfileRepository
	jwt      *auth.JWTService
	admin    config.AdminConfig
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	profiles identity.ProfileRepository,
	jwt *auth.JWTService,
	admin config.AdminConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profiles: profiles,
		jwt:      jwt,
		admin:    admin,
		logger:   logger,
	}
}

// LoginAdmin checks the configured console credentials and issues an
// admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, login, password string) (string, time.Time, error) {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.admin.Login)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !loginOK || !passwordOK {
		s.logger.Warn("admin login rejected", zap.String("login", login))
		return "", time.Time{}, shared.ErrUnauthorized
	}
	return s.jwt.GenerateAdminToken()
}

// LoginPartner checks partner credentials by email or phone and issues
// a partner token.
func (s *AuthService) LoginPartner(ctx context.Context, emailOrPhone, password string) (string, time.Time, error) {
	profile, err := s.profiles.FindByLogin(ctx, emailOrPhone)
	if err != nil {
		if shared.IsNotFound(err) {
			return "", time.Time{}, shared.ErrUnauthorized
		}
		return "", time.Time{}, err
	}
	if !profile.CanLogin() || !auth.CheckPassword(password, profile.PasswordHash) {
		return "", time.Time{}, shared.ErrUnauthorized
	}
	return s.jwt.GeneratePartnerToken(profile.ID)
}
