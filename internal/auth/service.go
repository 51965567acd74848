package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Service manages the session lifecycle: issuing signed tokens, validating
// them against the stored session record, and revoking them.
type Service struct {
	repo  Repository
	codec *TokenCodec
	now   func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *TokenCodec) *Service {
	return &Service{repo: repo, codec: codec, now: time.Now}
}

// Issue creates a session record for the user and returns the signed token
// bound to it.
func (s *Service) Issue(ctx context.Context, userID int64) (string, *Session, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.codec.TTL())
	jti := uuid.NewString()

	session, err := s.repo.CreateSession(ctx, userID, jti, now, expiresAt)
	if err != nil {
		return "", nil, err
	}

	token, err := s.codec.Sign(userID, jti, expiresAt)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Validate verifies a raw bearer token and resolves the owning identity.
//
// The token's own expiry claim is checked during signature verification, and
// the stored session record is checked independently afterwards: the record
// is authoritative. The session is returned alongside the identity so a
// caller can revoke the current session on logout.
func (s *Service) Validate(ctx context.Context, raw string) (*Identity, *Session, error) {
	claims, err := s.codec.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, nil, ErrTokenMalformed
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil, ErrTokenMalformed
	}

	session, err := s.repo.FindSessionByJTI(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if session.Revoked {
		return nil, nil, ErrSessionRevoked
	}
	if session.Expired(s.now()) {
		return nil, nil, ErrSessionExpired
	}
	if session.UserID != userID {
		return nil, nil, ErrTokenMalformed
	}

	identity, err := s.repo.FindIdentity(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !identity.IsActive {
		return nil, nil, ErrIdentityInactive
	}
	return identity, session, nil
}

// Revoke marks the session as revoked. Revoking an already-revoked session
// is a no-op.
func (s *Service) Revoke(ctx context.Context, session *Session) error {
	if session.Revoked {
		return nil
	}
	if err := s.repo.RevokeSession(ctx, session.ID); err != nil {
		return err
	}
	session.Revoked = true
	return nil
}

// RevokeAll revokes every non-revoked session owned by the user. Used when
// deactivating an identity; applied before the response is returned.
func (s *Service) RevokeAll(ctx context.Context, userID int64) error {
	return s.repo.RevokeUserSessions(ctx, userID)
}
