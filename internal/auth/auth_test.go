package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"minimart/internal/store"
)

const testSecret = "test-secret"

func newTestService() (*Service, *store.Memory) {
	mem := store.NewMemory()
	svc := NewService(mem, testSecret, time.Hour, "admin", "admin123")
	svc.cost = bcrypt.MinCost
	return svc, mem
}

func TestLoginSeedsDefaultsOnFirstUse(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	sub, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)

	creds, err := mem.GetCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte("admin123")))
}

func TestLoginRejectsWrongPairs(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "nope")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = mem.GetCredentials(ctx)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "root", "admin123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Login(ctx, "", "")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestUpdateCredentialsValidatesBeforeStoring(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		current string
		user    string
		pass    string
		confirm string
		field   string
	}{
		{"missing current", "", "boss", "secret", "secret", "currentPassword"},
		{"blank username", "admin123", "  ", "secret", "secret", "username"},
		{"blank password", "admin123", "boss", " ", " ", "newPassword"},
		{"mismatch", "admin123", "boss", "secret", "secrets", "confirmPassword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateCredentials(ctx, tt.current, tt.user, tt.pass, tt.confirm)
			var ferr FieldError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.field, ferr.Field)
		})
	}

	_, err := mem.GetCredentials(ctx)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestUpdateCredentialsChecksCurrentPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateCredentials(ctx, "wrong", "boss", "secret", "secret")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	creds, err := svc.UpdateCredentials(ctx, "admin123", "boss", "secret", "secret")
	require.NoError(t, err)
	assert.Equal(t, "boss", creds.Username)

	_, err = svc.Login(ctx, "admin", "admin123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Login(ctx, "boss", "secret")
	require.NoError(t, err)

	_, err = svc.UpdateCredentials(ctx, "admin123", "boss", "other", "other")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()

	_, err := ParseToken(testSecret, sign("other", jwt.MapClaims{"sub": "admin", "role": "admin", "exp": exp}))
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = ParseToken(testSecret, sign(testSecret, jwt.MapClaims{"sub": "admin", "role": "customer", "exp": exp}))
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired := time.Now().Add(-time.Hour).Unix()
	_, err = ParseToken(testSecret, sign(testSecret, jwt.MapClaims{"sub": "admin", "role": "admin", "exp": expired}))
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = ParseToken(testSecret, "not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	sub, err := ParseToken(testSecret, sign(testSecret, jwt.MapClaims{"sub": "admin", "role": "admin", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
}
