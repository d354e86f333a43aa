package userservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ogcamping/console/internal/common"
)

func NewSessionService(db *sql.DB, c *common.Cache) *SessionService {
	return &SessionService{
		m: newDBModel(db),
		c: c,
	}
}

// OpenSession registers the role and identity a bearer token acts with. The
// token itself was issued by the backend login flow.
func (s *SessionService) OpenSession(ctx context.Context, token string, role Role, email string, ttl time.Duration) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	v := common.NewValidator()
	ValidateToken(v, token)
	validateRole(v, role)
	validateEmail(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if ttl <= 0 {
		ttl = SessionTime
	}

	session := &Session{
		Role:   role,
		Email:  email,
		Expiry: time.Now().Add(ttl),
		Hash:   hashToken(token),
	}

	if err := s.m.upsertSession(ctx, session); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeySessionByToken(session.Hash))

	return session, nil
}

// GetSessionByToken returns the live session of token, ErrNotFound when it
// was never opened or has expired.
func (s *SessionService) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeySessionByToken(hash)

	if cached, ok := s.c.Get(key); ok {
		session := cached.(Session)
		if session.Expiry.After(time.Now()) {
			return &session, nil
		}
		s.c.Delete(key)
	}

	session, err := s.m.getSession(ctx, hash)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, *session)

	return session, nil
}

func (s *SessionService) CloseSession(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)
	s.c.Delete(common.CacheKeySessionByToken(hash))

	err := s.m.deleteSession(ctx, hash)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	return nil
}

func (s *SessionService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.m.deleteExpiredSessions(ctx)
}
