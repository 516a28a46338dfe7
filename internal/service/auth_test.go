package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athleticore/backend/internal/testhelpers"
	"github.com/athleticore/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "lifter",
		Email:    "lifter@example.com",
		Password: "supersecret",
		Age:      28,
		Gender:   "female",
		HeightCm: 170,
		WeightKg: 65,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "supersecret", user.PasswordHash)

	loggedIn, err := svc.Login(ctx, "lifter@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, 28, loggedIn.Age)

	// the identifier works as a username too
	loggedIn, err = svc.Login(ctx, "lifter", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "victim", Email: "victim@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "victim@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "original", Email: "original@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.RegisterRequest{
		Username: "someoneelse", Email: "original@example.com", Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrUserExists, "duplicate email")

	_, err = svc.Register(ctx, &types.RegisterRequest{
		Username: "original", Email: "fresh@example.com", Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrUserExists, "duplicate username")
}

func TestResetPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "forgetful", Email: "forgetful@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	user, tempPassword, err := svc.ResetPassword(ctx, "forgetful@example.com")
	require.NoError(t, err)
	assert.Equal(t, "forgetful", user.Username)
	assert.Len(t, tempPassword, 12)
	assert.NotContains(t, user.PasswordHash, tempPassword, "only the hash is stored")

	_, err = svc.Login(ctx, "forgetful@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "the old password stops working")

	loggedIn, err := svc.Login(ctx, "forgetful@example.com", tempPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewAuthService(db, "test-secret")

	_, _, err := svc.ResetPassword(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "tester")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "tester", claims.Username)
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	claims, err := svc.ValidateToken("invalid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a")
	verifier := NewAuthService(nil, "secret-b")

	token, err := issuer.GenerateToken(uuid.New(), "tester")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
