package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// UserRepository handles persistence for accounts, refresh-token sessions,
// one-time codes, and OAuth identities.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, active, last_login, created_at, updated_at`

// FindByEmail returns a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE LOWER(email) = LOWER($1)", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, full_name, active, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :full_name, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the user's last successful sign-in.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh-token session.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent)
		VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns an unrevoked, unexpired session for the token.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
		FROM refresh_tokens WHERE token = $1 AND revoked = FALSE AND expires_at > $2`
	var session models.RefreshToken
	if err := r.db.GetContext(ctx, &session, query, token, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &session, nil
}

// RevokeRefreshToken marks a session revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1 AND revoked = FALSE`, id, revokedAt)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live session for the user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// CreateOTP persists a hashed one-time code, invalidating earlier unused
// codes for the same email and purpose.
func (r *UserRepository) CreateOTP(ctx context.Context, otp *models.OTPCode) error {
	if otp.ID == "" {
		otp.ID = uuid.NewString()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE otp_codes SET consumed_at = $3 WHERE LOWER(email) = LOWER($1) AND purpose = $2 AND consumed_at IS NULL`, otp.Email, otp.Purpose, time.Now().UTC()); err != nil {
		return fmt.Errorf("invalidate previous otps: %w", err)
	}

	const query = `INSERT INTO otp_codes (id, email, code_hash, purpose, expires_at, created_at)
		VALUES (:id, :email, :code_hash, :purpose, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, otp); err != nil {
		return fmt.Errorf("create otp: %w", err)
	}
	return nil
}

// FindActiveOTP returns the newest unconsumed, unexpired code for the email
// and purpose.
func (r *UserRepository) FindActiveOTP(ctx context.Context, email, purpose string) (*models.OTPCode, error) {
	const query = `SELECT id, email, code_hash, purpose, expires_at, consumed_at, created_at
		FROM otp_codes WHERE LOWER(email) = LOWER($1) AND purpose = $2 AND consumed_at IS NULL AND expires_at > $3
		ORDER BY created_at DESC LIMIT 1`
	var otp models.OTPCode
	if err := r.db.GetContext(ctx, &otp, query, email, purpose, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &otp, nil
}

// ConsumeOTP marks a code used.
func (r *UserRepository) ConsumeOTP(ctx context.Context, id string, consumedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE otp_codes SET consumed_at = $2 WHERE id = $1`, id, consumedAt); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// FindOAuthIdentity returns the link for a provider subject.
func (r *UserRepository) FindOAuthIdentity(ctx context.Context, provider, subject string) (*models.OAuthIdentity, error) {
	const query = `SELECT id, provider, subject, user_id, created_at FROM oauth_identities WHERE provider = $1 AND subject = $2`
	var identity models.OAuthIdentity
	if err := r.db.GetContext(ctx, &identity, query, provider, subject); err != nil {
		return nil, err
	}
	return &identity, nil
}

// CreateOAuthIdentity links a provider subject to a user.
func (r *UserRepository) CreateOAuthIdentity(ctx context.Context, identity *models.OAuthIdentity) error {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO oauth_identities (id, provider, subject, user_id, created_at)
		VALUES (:id, :provider, :subject, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, identity); err != nil {
		return fmt.Errorf("create oauth identity: %w", err)
	}
	return nil
}
