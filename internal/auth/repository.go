package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the session layer.
type Repository interface {
	FindIdentity(ctx context.Context, id int64) (*Identity, error)
	CreateSession(ctx context.Context, userID int64, jti string, createdAt, expiresAt time.Time) (*Session, error)
	FindSessionByJTI(ctx context.Context, jti string) (*Session, error)
	RevokeSession(ctx context.Context, id int64) error
	RevokeUserSessions(ctx context.Context, userID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindIdentity fetches the minimal account view by user ID.
func (r *PGRepository) FindIdentity(ctx context.Context, id int64) (*Identity, error) {
	var identity Identity
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, is_active FROM users WHERE id = $1`, id,
	).Scan(&identity.ID, &identity.Email, &identity.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// CreateSession persists a new session row and returns it with its ID set.
func (r *PGRepository) CreateSession(ctx context.Context, userID int64, jti string, createdAt, expiresAt time.Time) (*Session, error) {
	session := &Session{
		UserID:    userID,
		JTI:       jti,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id, jti, created_at, expires_at, revoked)
		 VALUES ($1, $2, $3, $4, FALSE)
		 RETURNING id`,
		userID, jti, createdAt, expiresAt,
	).Scan(&session.ID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FindSessionByJTI fetches a session by its unique token identifier.
func (r *PGRepository) FindSessionByJTI(ctx context.Context, jti string) (*Session, error) {
	var session Session
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, jti, created_at, expires_at, revoked FROM sessions WHERE jti = $1`, jti,
	).Scan(&session.ID, &session.UserID, &session.JTI, &session.CreatedAt, &session.ExpiresAt, &session.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// RevokeSession marks a single session as revoked.
func (r *PGRepository) RevokeSession(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET revoked = TRUE WHERE id = $1`, id)
	return err
}

// RevokeUserSessions marks every non-revoked session of a user as revoked.
func (r *PGRepository) RevokeUserSessions(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`, userID)
	return err
}

var _ Repository = (*PGRepository)(nil)
