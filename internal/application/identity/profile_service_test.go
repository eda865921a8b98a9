package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appidentity "github.com/store/backend/internal/application/identity"
	"github.com/store/backend/internal/domain/identity"
	"github.com/store/backend/internal/domain/shared"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/cache"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/store/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedMail struct {
	kind string
	to   string
	body string
}

// recorderMailer captures outgoing mail instead of sending it.
type recorderMailer struct {
	sent []recordedMail
	fail bool
}

func (m *recorderMailer) SendPartnerCredentials(_ context.Context, to, _, password string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, recordedMail{kind: "credentials", to: to, body: password})
	return nil
}

func (m *recorderMailer) SendEmailChangeConfirmation(_ context.Context, to, link string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, recordedMail{kind: "email-change", to: to, body: link})
	return nil
}

func (m *recorderMailer) SendPasswordResetConfirmation(_ context.Context, to, link string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, recordedMail{kind: "password-reset", to: to, body: link})
	return nil
}

var _ appidentity.Mailer = (*recorderMailer)(nil)

type identityFixture struct {
	db      *gorm.DB
	tokens  *cache.InMemoryTokenStore
	mailer  *recorderMailer
	service *appidentity.ProfileService
	authSvc *appidentity.AuthService
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	tokens := cache.NewInMemoryTokenStore()
	mailer := &recorderMailer{}
	profiles := persistence.NewGormProfileRepository(db)
	service := appidentity.NewProfileService(
		profiles,
		tokens,
		mailer,
		persistence.NewGormUnitOfWork(db),
		"https://shop.example.com",
		zap.NewNop(),
	)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough",
		Expiration: time.Hour,
		Issuer:     "store-backend-test",
	})
	authSvc := appidentity.NewAuthService(profiles, jwtService, config.AdminConfig{
		Login:    "admin",
		Password: "console-password",
	}, zap.NewNop())

	return &identityFixture{db: db, tokens: tokens, mailer: mailer, service: service, authSvc: authSvc}
}

func validRegistration() appidentity.RegisterInput {
	return appidentity.RegisterInput{
		Name:         "Ivan Petrov",
		Phone:        "+79001234567",
		Email:        "partner@example.com",
		Organization: "Tools LLC",
		Activity:     "Retail of power tools",
	}
}

func (f *identityFixture) registerActive(t *testing.T) (*identity.Profile, string) {
	t.Helper()
	ctx := context.Background()
	profile, err := f.service.Register(ctx, validRegistration())
	require.NoError(t, err)

	activated, err := f.service.UpdateStatus(ctx, profile.ID, identity.StatusActive)
	require.NoError(t, err)

	require.NotEmpty(t, f.mailer.sent)
	password := f.mailer.sent[len(f.mailer.sent)-1].body
	return activated, password
}

func TestProfileService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a pending profile", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, err := f.service.Register(ctx, validRegistration())
		require.NoError(t, err)
		assert.Equal(t, identity.StatusPending, profile.Status)
		assert.Empty(t, profile.PasswordHash)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		f := newIdentityFixture(t)
		input := validRegistration()
		input.Phone = "89001234567"
		_, err := f.service.Register(ctx, input)
		require.Error(t, err)
	})

	t.Run("pending duplicate blocks registration, rejected does not", func(t *testing.T) {
		f := newIdentityFixture(t)
		first, err := f.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, err = f.service.Register(ctx, validRegistration())
		assertCode(t, err, "ALREADY_EXISTS")

		_, err = f.service.UpdateStatus(ctx, first.ID, identity.StatusRejected)
		require.NoError(t, err)

		_, err = f.service.Register(ctx, validRegistration())
		require.NoError(t, err)
	})
}

func TestProfileService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("activation issues and mails credentials", func(t *testing.T) {
		f := newIdentityFixture(t)
		activated, password := f.registerActive(t)

		assert.Equal(t, identity.StatusActive, activated.Status)
		assert.NotEmpty(t, activated.PasswordHash)
		assert.True(t, auth.CheckPassword(password, activated.PasswordHash))
		assert.Equal(t, "credentials", f.mailer.sent[0].kind)
	})

	t.Run("mail failure rolls the activation back", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, err := f.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		f.mailer.fail = true
		_, err = f.service.UpdateStatus(ctx, profile.ID, identity.StatusActive)
		require.Error(t, err)

		stored, err := f.service.GetProfile(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.StatusPending, stored.Status)
		assert.Empty(t, stored.PasswordHash)
	})

	t.Run("rejection changes status only", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, err := f.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		rejected, err := f.service.UpdateStatus(ctx, profile.ID, identity.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, identity.StatusRejected, rejected.Status)
		assert.Empty(t, f.mailer.sent)
	})
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("admin login with configured credentials", func(t *testing.T) {
		f := newIdentityFixture(t)
		token, _, err := f.authSvc.LoginAdmin(ctx, "admin", "console-password")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		_, _, err = f.authSvc.LoginAdmin(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("partner login by email and by phone", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, password := f.registerActive(t)

		token, _, err := f.authSvc.LoginPartner(ctx, profile.Email, password)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		_, _, err = f.authSvc.LoginPartner(ctx, profile.Phone, password)
		require.NoError(t, err)

		_, _, err = f.authSvc.LoginPartner(ctx, profile.Email, "wrong")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("pending partner cannot log in", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, err := f.service.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, _, err = f.authSvc.LoginPartner(ctx, profile.Email, "anything")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestProfileService_EmailChange(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip applies the new email", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		require.NoError(t, f.service.RequestEmailChange(ctx, profile.ID, "new@example.com"))

		require.Len(t, f.mailer.sent, 2)
		mail := f.mailer.sent[1]
		assert.Equal(t, "new@example.com", mail.to)

		token := tokenFromLink(t, mail.body)
		updated, err := f.service.ConfirmEmailChange(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)

		// the token is single-use
		_, err = f.service.ConfirmEmailChange(ctx, token)
		require.Error(t, err)
	})

	t.Run("second request inside the window is throttled", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		require.NoError(t, f.service.RequestEmailChange(ctx, profile.ID, "new@example.com"))
		err := f.service.RequestEmailChange(ctx, profile.ID, "another@example.com")
		assertCode(t, err, "TOO_MANY_REQUESTS")
	})

	t.Run("token expires after five minutes", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		require.NoError(t, f.service.RequestEmailChange(ctx, profile.ID, "new@example.com"))
		token := tokenFromLink(t, f.mailer.sent[1].body)

		f.tokens.SetClock(func() time.Time { return time.Now().Add(6 * time.Minute) })
		_, err := f.service.ConfirmEmailChange(ctx, token)
		assertCode(t, err, "NOT_FOUND")
	})

	t.Run("mail failure cleans the tokens up", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		f.mailer.fail = true
		require.Error(t, f.service.RequestEmailChange(ctx, profile.ID, "new@example.com"))

		// the flow can be retried immediately
		f.mailer.fail = false
		assert.NoError(t, f.service.RequestEmailChange(ctx, profile.ID, "new@example.com"))
	})
}

func TestProfileService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip sets the new password", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, oldPassword := f.registerActive(t)

		require.NoError(t, f.service.RequestPasswordReset(ctx, profile.Email))
		token := tokenFromLink(t, f.mailer.sent[1].body)

		require.NoError(t, f.service.ConfirmPasswordReset(ctx, token, "brand-new-password"))

		_, _, err := f.authSvc.LoginPartner(ctx, profile.Email, "brand-new-password")
		require.NoError(t, err)
		_, _, err = f.authSvc.LoginPartner(ctx, profile.Email, oldPassword)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		require.NoError(t, f.service.RequestPasswordReset(ctx, profile.Email))
		token := tokenFromLink(t, f.mailer.sent[1].body)

		err := f.service.ConfirmPasswordReset(ctx, token, "short")
		assertCode(t, err, "INVALID_INPUT")
	})

	t.Run("repeat request is throttled", func(t *testing.T) {
		f := newIdentityFixture(t)
		profile, _ := f.registerActive(t)

		require.NoError(t, f.service.RequestPasswordReset(ctx, profile.Email))
		err := f.service.RequestPasswordReset(ctx, profile.Email)
		assertCode(t, err, "TOO_MANY_REQUESTS")
	})
}

func TestProfileService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t)
	profile, password := f.registerActive(t)

	require.NoError(t, f.service.UpdatePassword(ctx, profile.ID, password, "brand-new-password"))

	err := f.service.UpdatePassword(ctx, profile.ID, "wrong-old", "another-password")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	const marker = "token="
	idx := len(link) - 36 // uuid length
	require.Contains(t, link, marker)
	return link[idx:]
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
