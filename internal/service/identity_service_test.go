package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/db/dbtest"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/repository"
)

func newIdentity(t *testing.T) (*IdentityService, *repository.Store, *auth.TokenManager) {
	t.Helper()
	store := repository.NewStore(dbtest.Open(t))
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewIdentityService(store.Users, tokens), store, tokens
}

func TestIdentityService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newIdentity(t)

	u, err := svc.Register(ctx, RegisterInput{
		Name:         "Ada",
		Email:        "Ada@Example.com",
		Password:     "pw",
		GolfClubSize: "standard",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleConsumer, u.Role)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "pw", u.PasswordHash)

	res, err := svc.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "Ada", res.Username)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Sub)
	assert.Equal(t, model.RoleConsumer, claims.Role)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	requireType(t, err, apperror.TypeUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "pw")
	requireType(t, err, apperror.TypeUnauthorized)
}

func TestIdentityService_RegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newIdentity(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "DUP@example.com", Password: "other"})
	requireType(t, err, apperror.TypeInvalidInput)
	assert.Contains(t, err.Error(), "Email already in use")

	users, total, err := store.Users.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)
}

func TestIdentityService_RegisterRequiresCredentials(t *testing.T) {
	svc, _, _ := newIdentity(t)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com"})
	requireType(t, err, apperror.TypeInvalidInput)
}

func TestIdentityService_UpdateMeCannotChangeRole(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newIdentity(t)

	u, err := svc.Register(ctx, RegisterInput{Email: "me@example.com", Password: "pw"})
	require.NoError(t, err)

	admin := "admin"
	_, err = svc.UpdateMe(ctx, u.ID, UserPatch{Role: &admin})
	requireType(t, err, apperror.TypeForbidden)

	phone := "+1 555 0100"
	got, err := svc.UpdateMe(ctx, u.ID, UserPatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, model.RoleConsumer, got.Role)
}

func TestIdentityService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newIdentity(t)

	u, err := svc.Register(ctx, RegisterInput{Email: "promote@example.com", Password: "pw"})
	require.NoError(t, err)
	taken, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "pw"})
	require.NoError(t, err)

	admin := "admin"
	got, err := svc.UpdateUser(ctx, u.ID, UserPatch{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	owner := "owner"
	_, err = svc.UpdateUser(ctx, u.ID, UserPatch{Role: &owner})
	requireType(t, err, apperror.TypeInvalidInput)

	email := taken.Email
	_, err = svc.UpdateUser(ctx, u.ID, UserPatch{Email: &email})
	requireType(t, err, apperror.TypeInvalidInput)

	name := "ghost"
	_, err = svc.UpdateUser(ctx, uuid.New(), UserPatch{Name: &name})
	requireType(t, err, apperror.TypeNotFound)
}

func TestIdentityService_ListUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newIdentity(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(ctx, RegisterInput{Email: email, Password: "pw"})
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(ctx, pagination.Normalize(2, 2, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Meta.TotalPages)
}
