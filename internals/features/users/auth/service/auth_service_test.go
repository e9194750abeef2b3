package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library_backend/internals/databases/databasetest"
	authRepo "library_backend/internals/features/users/auth/repository"
	"library_backend/internals/helpers/errs"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{UserName: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaffMember())
	assert.NotEqual(t, "correct-horse", user.Password)

	got, err := svc.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	reloaded, err := authRepo.FindUserByID(db, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLogin)

	_, err = svc.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateAndInvalid(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{UserName: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{UserName: "alice", Password1: "another-pass", Password2: "another-pass"})
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")

	_, err = svc.Register(ctx, RegisterInput{UserName: "bob", Password1: "12345678", Password2: "12345678"})
	ve, ok = errs.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "password2")
}

func TestStaffRegistrationAndInactiveUser(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	staff, err := svc.Register(ctx, RegisterInput{UserName: "librarian", Password1: "correct-horse", Password2: "correct-horse", Staff: true})
	require.NoError(t, err)
	assert.True(t, staff.IsStaffMember())

	require.NoError(t, db.Model(staff).Update("is_active", false).Error)
	_, err = svc.Authenticate(ctx, "librarian", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ActiveUser(ctx, staff.ID)
	assert.True(t, errors.Is(err, errs.ErrPermissionDenied))
	_, err = svc.ActiveUser(ctx, 999)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestSetPassword(t *testing.T) {
	db := databasetest.Open(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{UserName: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, svc.SetPassword(ctx, u.ID, "battery-staple"))

	_, err = svc.Authenticate(ctx, "alice", "battery-staple")
	assert.NoError(t, err)
}

func TestTokenIssueParseRevoke(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	user, err := NewAuthService(db).Register(ctx, RegisterInput{UserName: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)

	tokens := NewTokenService(db, "test-secret", time.Hour)
	raw, exp, err := tokens.Issue(*user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Parse(ctx, raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "alice", claims.UserName)
	assert.NotEmpty(t, claims.ID)

	require.NoError(t, tokens.Revoke(ctx, claims))
	require.NoError(t, tokens.Revoke(ctx, claims), "revoking twice is fine")
	_, err = tokens.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestTokenRejectsForeignSignatureAndExpiry(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	user, err := NewAuthService(db).Register(ctx, RegisterInput{UserName: "alice", Password1: "correct-horse", Password2: "correct-horse"})
	require.NoError(t, err)

	other := NewTokenService(db, "other-secret", time.Hour)
	raw, _, err := other.Issue(*user)
	require.NoError(t, err)

	tokens := NewTokenService(db, "test-secret", time.Hour)
	_, err = tokens.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired := NewTokenService(db, "test-secret", time.Hour)
	expired.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err = expired.Issue(*user)
	require.NoError(t, err)
	_, err = tokens.Parse(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, err = NewTokenService(db, "", time.Hour).Issue(*user)
	assert.ErrorIs(t, err, ErrTokensDisabled)
}
