package users

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

type memoryRepo struct {
	accounts []User
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (User, error) {
	for _, u := range r.accounts {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	result := make([]User, len(r.accounts))
	copy(result, r.accounts)
	return result, nil
}

func TestListUsersEndpoint(t *testing.T) {
	repo := &memoryRepo{accounts: []User{
		{ID: 1, Username: "admin", Role: "ADMIN", IsActive: true},
		{ID: 2, Username: "cashier", Role: "CASHIER", IsActive: true},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo))

	router := chi.NewRouter()
	handler.MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/users", nil))

	require.Equal(t, 200, rec.Code)
	var accounts []User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 2)
	require.Equal(t, "admin", accounts[0].Username)
}

func TestListUsersEndpointEmpty(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(&memoryRepo{}))

	router := chi.NewRouter()
	handler.MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/users", nil))

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}
