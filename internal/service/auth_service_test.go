package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail    *models.User
	userByID       *models.User
	findByEmailErr error
	findByIDErr    error

	refreshTokens map[string]*models.RefreshToken
	otps          map[string]*models.OTPCode
	identities    map[string]*models.OAuthIdentity

	createdUser      *models.User
	lastLoginUpdated bool
	revokedSessions  []string
	revokedAllFor    string
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID != nil {
		return m.userByID, nil
	}
	if m.userByEmail != nil {
		return m.userByEmail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "created-user"
	m.createdUser = user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.userByEmail != nil && m.userByEmail.ID == id {
		m.userByEmail.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedAllFor = userID
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = make(map[string]*models.RefreshToken)
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := m.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revokedSessions = append(m.revokedSessions, id)
	return nil
}

func (m *mockAuthRepo) CreateOTP(ctx context.Context, otp *models.OTPCode) error {
	otp.ID = "otp-1"
	if m.otps == nil {
		m.otps = make(map[string]*models.OTPCode)
	}
	m.otps[otp.Email+":"+otp.Purpose] = otp
	return nil
}

func (m *mockAuthRepo) FindActiveOTP(ctx context.Context, email, purpose string) (*models.OTPCode, error) {
	otp, ok := m.otps[email+":"+purpose]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return otp, nil
}

func (m *mockAuthRepo) ConsumeOTP(ctx context.Context, id string, consumedAt time.Time) error {
	return nil
}

func (m *mockAuthRepo) FindOAuthIdentity(ctx context.Context, provider, subject string) (*models.OAuthIdentity, error) {
	identity, ok := m.identities[provider+":"+subject]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return identity, nil
}

func (m *mockAuthRepo) CreateOAuthIdentity(ctx context.Context, identity *models.OAuthIdentity) error {
	if m.identities == nil {
		m.identities = make(map[string]*models.OAuthIdentity)
	}
	m.identities[identity.Provider+":"+identity.Subject] = identity
	return nil
}

type captureMailer struct {
	email   string
	code    string
	purpose string
}

func (m *captureMailer) SendOTP(_ context.Context, email, code, purpose string) error {
	m.email = email
	m.code = code
	m.purpose = purpose
	return nil
}

type stubProvider struct {
	name    string
	profile *OAuthProfile
	err     error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Exchange(ctx context.Context, code string) (*OAuthProfile, error) {
	return p.profile, p.err
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T) *models.User {
	return &models.User{
		ID:           "u1",
		Email:        "ada@example.org",
		PasswordHash: hashPassword(t, "correct-password"),
		FullName:     "Ada Lovelace",
		Active:       true,
	}
}

func newTestAuthService(repo *mockAuthRepo, mailer Mailer, providers ...OAuthProvider) *AuthService {
	return NewAuthService(repo, mailer, providers, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "founders-explorer",
	})
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.org",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.ID)
	assert.True(t, repo.lastLoginUpdated)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.org",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginPasswordlessAccount(t *testing.T) {
	user := activeUser(t)
	user.PasswordHash = ""
	repo := &mockAuthRepo{userByEmail: user}
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.org",
		Password: "anything",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := activeUser(t)
	user.Active = false
	repo := &mockAuthRepo{userByEmail: user}
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.org",
		Password: "correct-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceSignUpConflict(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	_, err := svc.SignUp(context.Background(), models.SignUpRequest{
		Email:    "ada@example.org",
		Password: "long-enough-password",
		FullName: "Ada Lovelace",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceOTPRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{}
	mailer := &captureMailer{}
	svc := newTestAuthService(repo, mailer)

	require.NoError(t, svc.RequestOTP(context.Background(), models.OTPRequest{Email: "new@example.org"}))
	require.NotEmpty(t, mailer.code)
	assert.Len(t, mailer.code, 6)
	assert.Equal(t, models.OTPPurposeSignIn, mailer.purpose)

	resp, err := svc.VerifyOTP(context.Background(), models.OTPVerifyRequest{
		Email: "new@example.org",
		Code:  mailer.code,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.createdUser, "first OTP sign-in creates the account")
	assert.Equal(t, "new@example.org", repo.createdUser.Email)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthServiceVerifyOTPWrongCode(t *testing.T) {
	repo := &mockAuthRepo{}
	mailer := &captureMailer{}
	svc := newTestAuthService(repo, mailer)

	require.NoError(t, svc.RequestOTP(context.Background(), models.OTPRequest{Email: "new@example.org"}))

	_, err := svc.VerifyOTP(context.Background(), models.OTPVerifyRequest{
		Email: "new@example.org",
		Code:  "000000x",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceOAuthCallbackCreatesAndLinks(t *testing.T) {
	repo := &mockAuthRepo{}
	provider := &stubProvider{
		name:    "google",
		profile: &OAuthProfile{Subject: "sub-1", Email: "ada@example.org", FullName: "Ada Lovelace"},
	}
	svc := newTestAuthService(repo, nil, provider)

	resp, err := svc.OAuthCallback(context.Background(), models.OAuthCallbackRequest{Provider: "Google", Code: "auth-code"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, repo.createdUser)
	assert.Contains(t, repo.identities, "google:sub-1")
}

func TestAuthServiceOAuthCallbackUnknownProvider(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, nil)

	_, err := svc.OAuthCallback(context.Background(), models.OAuthCallbackRequest{Provider: "gitlab", Code: "auth-code"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := &mockAuthRepo{userByID: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	repo.refreshTokens = map[string]*models.RefreshToken{
		"old-token": {ID: "rt1", UserID: "u1", Token: "old-token", ExpiresAt: time.Now().Add(time.Hour)},
	}

	resp, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	assert.Contains(t, repo.revokedSessions, "rt1", "the used token is revoked")
}

func TestAuthServiceLogout(t *testing.T) {
	repo := &mockAuthRepo{
		refreshTokens: map[string]*models.RefreshToken{
			"token": {ID: "rt1", UserID: "u1", Token: "token"},
		},
	}
	svc := newTestAuthService(repo, nil)

	require.NoError(t, svc.Logout(context.Background(), "u1", models.LogoutRequest{RefreshToken: "token"}))
	assert.Contains(t, repo.revokedSessions, "rt1")
}

func TestAuthServiceLogoutMissingSessionSucceeds(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, nil)
	assert.NoError(t, svc.Logout(context.Background(), "u1", models.LogoutRequest{RefreshToken: "gone"}))
}

func TestAuthServiceLogoutForeignTokenRejected(t *testing.T) {
	repo := &mockAuthRepo{
		refreshTokens: map[string]*models.RefreshToken{
			"token": {ID: "rt1", UserID: "someone-else", Token: "token"},
		},
	}
	svc := newTestAuthService(repo, nil)

	err := svc.Logout(context.Background(), "u1", models.LogoutRequest{RefreshToken: "token"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.revokedSessions)
}

func TestAuthServiceChangePassword(t *testing.T) {
	user := activeUser(t)
	repo := &mockAuthRepo{userByEmail: user}
	svc := newTestAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "correct-password",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("brand-new-password")))
	assert.Equal(t, "u1", repo.revokedAllFor, "other sessions are revoked")
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "brand-new-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceForgotPasswordUnknownEmail(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestAuthService(&mockAuthRepo{}, mailer)

	err := svc.ForgotPassword(context.Background(), models.ResetPasswordRequest{Email: "nobody@example.org"})
	require.NoError(t, err, "the response never reveals whether an account exists")
	assert.Empty(t, mailer.code, "no code goes out for unknown addresses")
}

func TestAuthServiceResetPassword(t *testing.T) {
	user := activeUser(t)
	repo := &mockAuthRepo{userByEmail: user}
	mailer := &captureMailer{}
	svc := newTestAuthService(repo, mailer)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ResetPasswordRequest{Email: user.Email}))
	require.NotEmpty(t, mailer.code)
	assert.Equal(t, models.OTPPurposeReset, mailer.purpose)

	err := svc.ResetPassword(context.Background(), models.ConfirmResetPasswordRequest{
		Email:       user.Email,
		Code:        mailer.code,
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("brand-new-password")))
	assert.Equal(t, "u1", repo.revokedAllFor)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ada@example.org",
		Password: "correct-password",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.org", claims.Email)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceSessionUserGone(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{}, nil)

	_, err := svc.Session(context.Background(), &models.JWTClaims{UserID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, appErrors.FromError(err).Code)
}
