package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
)

func activeIDs(msgs []model.GettingStartedMessage) []uuid.UUID {
	var ids []uuid.UUID
	for _, m := range msgs {
		if m.IsActive {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func TestGettingStartedService_CreateKeepsOneActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewGettingStartedService(f.store, f.rec)

	a, err := svc.Create(ctx, f.user.ID, "Welcome, book your first fitting")
	require.NoError(t, err)
	b, err := svc.Create(ctx, f.user.ID, "New season, new clubs")
	require.NoError(t, err)

	page, err := svc.List(ctx, pagination.Normalize(1, 0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, []uuid.UUID{b.ID}, activeIDs(page.Items))

	gotA, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, gotA.IsActive)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)
}

func TestGettingStartedService_UpdateActivates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewGettingStartedService(f.store, f.rec)

	a, err := svc.Create(ctx, f.user.ID, "A")
	require.NoError(t, err)
	b, err := svc.Create(ctx, f.user.ID, "B")
	require.NoError(t, err)

	on := true
	got, err := svc.Update(ctx, a.ID, MessagePatch{IsActive: &on})
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	gotB, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, gotB.IsActive)

	text := "A, reworded"
	got, err = svc.Update(ctx, a.ID, MessagePatch{Message: &text})
	require.NoError(t, err)
	assert.Equal(t, "A, reworded", got.Message)
	assert.True(t, got.IsActive)

	_, err = svc.Update(ctx, uuid.New(), MessagePatch{IsActive: &on})
	requireType(t, err, apperror.TypeNotFound)

	// the failed activation rolled back, so A is still the active one
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
}

func TestGettingStartedService_DeleteGuardsActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewGettingStartedService(f.store, f.rec)

	a, err := svc.Create(ctx, f.user.ID, "A")
	require.NoError(t, err)
	b, err := svc.Create(ctx, f.user.ID, "B")
	require.NoError(t, err)

	requireType(t, svc.Delete(ctx, b.ID), apperror.TypeInvalidInput)
	require.NoError(t, svc.Delete(ctx, a.ID))
	requireType(t, svc.Delete(ctx, a.ID), apperror.TypeNotFound)
}

func TestGettingStartedService_ActiveNoneAndValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewGettingStartedService(f.store, f.rec)

	_, err := svc.Active(ctx)
	requireType(t, err, apperror.TypeNotFound)

	_, err = svc.Create(ctx, f.user.ID, "   ")
	requireType(t, err, apperror.TypeInvalidInput)
}
