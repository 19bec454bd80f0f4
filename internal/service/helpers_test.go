package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/db/dbtest"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/repository"
)

type fixture struct {
	store *repository.Store
	rec   *events.Recorder
	user  *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore(dbtest.Open(t))
	return &fixture{
		store: store,
		rec:   &events.Recorder{},
		user:  seedUser(t, store, "golfer@example.com", model.RoleConsumer),
	}
}

func seedUser(t *testing.T, store *repository.Store, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: "Test Golfer", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func requireType(t *testing.T, err error, want apperror.Type) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, apperror.TypeOf(err), "err: %v", err)
}
