package userservice

import (
	"context"
	"testing"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEnvironment(t *testing.T) *SessionService {
	db := common.TestDB("file://../../migrations", t)
	return NewSessionService(db, common.NewCache(5*time.Minute, 10*time.Minute))
}

func TestSessionLifecycle(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	opened, err := s.OpenSession(ctx, "staff-token", RoleStaff, " Lan@OGCamping.vn ", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "lan@ogcamping.vn", opened.Email)
	assert.Equal(t, 1, opened.Version)

	got, err := s.GetSessionByToken(ctx, "staff-token")
	require.NoError(t, err)
	assert.Equal(t, opened.ID, got.ID)
	assert.Equal(t, RoleStaff, got.Role)
	assert.Equal(t, opened.Key(), got.Key())

	// reopening the same token replaces the role
	reopened, err := s.OpenSession(ctx, "staff-token", RoleAdmin, "lan@ogcamping.vn", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, reopened.ID)
	assert.Equal(t, 2, reopened.Version)

	got, err = s.GetSessionByToken(ctx, "staff-token")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got.Role)

	require.NoError(t, s.CloseSession(ctx, "staff-token"))
	_, err = s.GetSessionByToken(ctx, "staff-token")
	assert.ErrorIs(t, err, ErrNotFound)

	// closing twice is not an error
	assert.NoError(t, s.CloseSession(ctx, "staff-token"))
}

func TestOpenSessionValidation(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		token string
		role  Role
		email string
		field string
	}{
		{name: "empty token", token: "", role: RoleStaff, email: "lan@ogcamping.vn", field: "token"},
		{name: "invalid role", token: "t", role: "ROOT", email: "lan@ogcamping.vn", field: "role"},
		{name: "invalid email", token: "t", role: RoleStaff, email: "lan", field: "email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.OpenSession(ctx, tc.token, tc.role, tc.email, time.Hour)
			var verr common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, tc.field)
		})
	}
}

func TestExpiredSessions(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.OpenSession(ctx, "short-token", RoleAdmin, "admin@ogcamping.vn", time.Second)
	require.NoError(t, err)
	_, err = s.OpenSession(ctx, "long-token", RoleAdmin, "admin@ogcamping.vn", time.Hour)
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	_, err = s.GetSessionByToken(ctx, "short-token")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.GetSessionByToken(ctx, "long-token")
	assert.NoError(t, err)
}
