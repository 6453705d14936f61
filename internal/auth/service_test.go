package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

type memoryRepo struct {
	users map[string]*User
}

func (r *memoryRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return user, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &memoryRepo{users: map[string]*User{
		"cashier": {
			ID:           7,
			Username:     "cashier",
			Email:        "cashier@example.com",
			PasswordHash: string(hash),
			Role:         "CASHIER",
			IsActive:     true,
		},
	}}
	return NewService(repo, "test-secret", time.Hour), repo
}

func TestLoginIssuesParsableToken(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Login(context.Background(), "cashier", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, int64(3600), result.ExpiresIn)
	require.Equal(t, int64(7), result.User.ID)

	identity, err := svc.ParseToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.UserID)
	require.Equal(t, "cashier", identity.Username)
	require.Equal(t, "CASHIER", identity.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "cashier", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	repo.users["cashier"].IsActive = false
	_, err = svc.Login(ctx, "cashier", "s3cret")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	result, err := svc.Login(context.Background(), "cashier", "s3cret")
	require.NoError(t, err)

	_, err = svc.ParseToken(result.Token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	svc, _ := newTestService(t)
	result, err := svc.Login(context.Background(), "cashier", "s3cret")
	require.NoError(t, err)

	other := NewService(&memoryRepo{}, "another-secret", time.Hour)
	_, err = other.ParseToken(result.Token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.ParseToken("not-a-token")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}
