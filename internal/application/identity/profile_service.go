package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// confirmation tokens live long enough to open the mailed link, not
// longer
const tokenTTL = 5 * time.Minute

const minPasswordLength = 8

// RegisterInput carries a partner registration request.
type RegisterInput struct {
	Name         string
	Phone        string
	Email        string
	Organization string
	Activity     string
}

// ProfileService handles partner lifecycle, email change and password
// reset flows.
type ProfileService struct {
	profiles  identity.ProfileRepository
	tokens    TokenStore
	mailer    Mailer
	uow       shared.UnitOfWork
	publicURL string
	logger    *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles identity.ProfileRepository,
	tokens TokenStore,
	mailer Mailer,
	uow shared.UnitOfWork,
	publicURL string,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		tokens:    tokens,
		mailer:    mailer,
		uow:       uow,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Register stores a pending partner profile awaiting moderation.
func (s *ProfileService) Register(ctx context.Context, input RegisterInput) (*identity.Profile, error) {
	if input.Name == "" || input.Email == "" || input.Organization == "" {
		return nil, shared.NewDomainError("INVALID_INPUT",
			"Name, email and organization are required")
	}
	if err := identity.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}

	exists, err := s.profiles.ExistsActiveByEmailOrPhone(ctx, input.Email, input.Phone, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"A profile with this email or phone already exists")
	}

	profile := &identity.Profile{
		ID:           uuid.New(),
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		Organization: input.Organization,
		Activity:     input.Activity,
		Status:       identity.StatusPending,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile loads a partner profile
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	return s.profiles.FindByID(ctx, id)
}

// ListPartners returns a filtered partner page with the total count
func (s *ProfileService) ListPartners(ctx context.Context, filter identity.ProfileFilter) ([]identity.Profile, int64, error) {
	return s.profiles.List(ctx, filter)
}

// UpdateStatus moves a profile through moderation. Activation issues
// credentials: a generated password is stored hashed and mailed to the
// partner; a mail failure rolls the activation back.
func (s *ProfileService) UpdateStatus(ctx context.Context, id uuid.UUID, status identity.ProfileStatus) (*identity.Profile, error) {
	if !status.Valid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown profile status")
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Status == status {
		return profile, nil
	}

	if status != identity.StatusActive {
		profile.Status = status
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	}

	exists, err := s.profiles.ExistsActiveByEmailOrPhone(ctx, profile.Email, profile.Phone, profile.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"An active profile with this email or phone already exists")
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile.Status = identity.StatusActive
	profile.PasswordHash = hash
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.profiles.Update(ctx, profile); err != nil {
			return err
		}
		return s.mailer.SendPartnerCredentials(ctx, profile.Email, profile.Email, password)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdatePassword changes the password of an authenticated partner
func (s *ProfileService) UpdatePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, profile.PasswordHash) {
		return shared.ErrUnauthorized
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	return s.profiles.Update(ctx, profile)
}

// RequestEmailChange starts the email change flow: a confirmation token
// is stored under three keys (token, user, claimed email) for five
// minutes and mailed to the new address. A second request inside the
// window is throttled.
func (s *ProfileService) RequestEmailChange(ctx context.Context, id uuid.UUID, newEmail string) error {
	if newEmail == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email is required")
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if profile.Email == newEmail {
		return shared.NewDomainError("INVALID_INPUT",
			"The new email matches the current one")
	}

	exists, err := s.profiles.ExistsActiveByEmailOrPhone(ctx, newEmail, "", profile.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS",
			"This email is already in use")
	}

	throttled, err := s.tokens.Exists(ctx, emailChangeUserKey(id))
	if err != nil {
		return err
	}
	if !throttled {
		claimed, err := s.tokens.Exists(ctx, emailChangeEmailKey(newEmail))
		if err != nil {
			return err
		}
		throttled = claimed
	}
	if throttled {
		return shared.ErrTooManyRequests
	}

	token := uuid.NewString()
	keys := []string{emailChangeTokenKey(token), emailChangeUserKey(id), emailChangeEmailKey(newEmail)}
	if err := s.tokens.Set(ctx, keys[0], id.String()+"|"+newEmail, tokenTTL); err != nil {
		return err
	}
	if err := s.tokens.Set(ctx, keys[1], token, tokenTTL); err != nil {
		return err
	}
	if err := s.tokens.Set(ctx, keys[2], token, tokenTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/profile/email/confirm?token=%s", s.publicURL, token)
	if err := s.mailer.SendEmailChangeConfirmation(ctx, newEmail, link); err != nil {
		// the flow must be retryable right away when mail never left
		if delErr := s.tokens.Delete(ctx, keys...); delErr != nil {
			s.logger.Warn("failed to clean up email change tokens", zap.Error(delErr))
		}
		return err
	}
	return nil
}

// ConfirmEmailChange applies the email change referenced by the token
// and clears the token keys.
func (s *ProfileService) ConfirmEmailChange(ctx context.Context, token string) (*identity.Profile, error) {
	value, err := s.tokens.Get(ctx, emailChangeTokenKey(token))
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Confirmation link has expired")
	}

	idStr, newEmail, ok := strings.Cut(value, "|")
	if !ok {
		return nil, shared.ErrInvalidState
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, shared.ErrInvalidState
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.Email = newEmail
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	err = s.tokens.Delete(ctx,
		emailChangeTokenKey(token),
		emailChangeUserKey(id),
		emailChangeEmailKey(newEmail))
	if err != nil {
		s.logger.Warn("failed to clean up email change tokens", zap.Error(err))
	}
	return profile, nil
}

// RequestPasswordReset starts the password reset flow for the profile
// registered under the given email.
func (s *ProfileService) RequestPasswordReset(ctx context.Context, email string) error {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	throttled, err := s.tokens.Exists(ctx, passwordResetUserKey(profile.ID))
	if err != nil {
		return err
	}
	if throttled {
		return shared.ErrTooManyRequests
	}

	token := uuid.NewString()
	keys := []string{passwordResetTokenKey(token), passwordResetUserKey(profile.ID)}
	if err := s.tokens.Set(ctx, keys[0], profile.ID.String(), tokenTTL); err != nil {
		return err
	}
	if err := s.tokens.Set(ctx, keys[1], token, tokenTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/profile/password/confirm?token=%s", s.publicURL, token)
	if err := s.mailer.SendPasswordResetConfirmation(ctx, profile.Email, link); err != nil {
		if delErr := s.tokens.Delete(ctx, keys...); delErr != nil {
			s.logger.Warn("failed to clean up password reset tokens", zap.Error(delErr))
		}
		return err
	}
	return nil
}

// ConfirmPasswordReset sets the new password referenced by the token
// and clears the token keys.
func (s *ProfileService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	value, err := s.tokens.Get(ctx, passwordResetTokenKey(token))
	if err != nil {
		return err
	}
	if value == "" {
		return shared.NewDomainError("NOT_FOUND", "Confirmation link has expired")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return shared.ErrInvalidState
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	if err := s.profiles.Update(ctx, profile); err != nil {
		return err
	}

	err = s.tokens.Delete(ctx, passwordResetTokenKey(token), passwordResetUserKey(id))
	if err != nil {
		s.logger.Warn("failed to clean up password reset tokens", zap.Error(err))
	}
	return nil
}

func emailChangeTokenKey(token string) string {
	return "email-change:token:" + token
}

func emailChangeUserKey(id uuid.UUID) string {
	return "email-change:user:" + id.String()
}

func emailChangeEmailKey(email string) string {
	return "email-change:email:" + email
}

func passwordResetTokenKey(token string) string {
	return "password-reset:token:" + token
}

func passwordResetUserKey(id uuid.UUID) string {
	return "password-reset:user:" + id.String()
}
