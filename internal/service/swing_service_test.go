package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
)

func TestSwingService_InitialStatusIsConfigurable(t *testing.T) {
	for _, initial := range []model.Status{model.StatusSubmitted, model.StatusScheduled} {
		t.Run(string(initial), func(t *testing.T) {
			f := newFixture(t)
			svc, err := NewSwingService(f.store, f.rec, initial)
			require.NoError(t, err)

			sw, err := svc.Create(context.Background(), f.user.ID, at("2024-06-01T10:00:00Z"), "slice off the tee")
			require.NoError(t, err)
			assert.Equal(t, initial, sw.Status)
			assert.Equal(t, []string{events.RKSwingCreated}, f.rec.Keys())
		})
	}
}

func TestNewSwingService_RejectsFittingOnlyStatus(t *testing.T) {
	f := newFixture(t)
	_, err := NewSwingService(f.store, f.rec, model.StatusPrepping)
	require.Error(t, err)
}

func TestSwingService_SetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, err := NewSwingService(f.store, f.rec, model.StatusSubmitted)
	require.NoError(t, err)

	sw, err := svc.Create(ctx, f.user.ID, at("2024-06-01T10:00:00Z"), "")
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, sw.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	_, err = svc.SetStatus(ctx, sw.ID, "prepping")
	requireType(t, err, apperror.TypeInvalidInput)

	got, err = svc.Get(ctx, sw.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	_, err = svc.SetStatus(ctx, uuid.New(), "completed")
	requireType(t, err, apperror.TypeNotFound)
}

func TestSwingService_UpdateVideoAndAnalysis(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, err := NewSwingService(f.store, f.rec, model.StatusSubmitted)
	require.NoError(t, err)

	sw, err := svc.Create(ctx, f.user.ID, at("2024-06-01T10:00:00Z"), "keep")
	require.NoError(t, err)
	assert.Nil(t, sw.VideoURL)

	video := "https://videos.example.com/swing.mp4"
	got, err := svc.Update(ctx, sw.ID, SwingPatch{
		VideoURL:     &video,
		AnalysisData: json.RawMessage(`{"club_speed":96.5,"path":"in-to-out"}`),
	})
	require.NoError(t, err)

	require.NotNil(t, got.VideoURL)
	assert.Equal(t, video, *got.VideoURL)
	assert.JSONEq(t, `{"club_speed":96.5,"path":"in-to-out"}`, string(got.AnalysisData))
	assert.Equal(t, "keep", got.Comments)

	_, err = svc.Update(ctx, sw.ID, SwingPatch{AnalysisData: json.RawMessage(`{broken`)})
	requireType(t, err, apperror.TypeInvalidInput)

	empty := ""
	cleared, err := svc.Update(ctx, sw.ID, SwingPatch{VideoURL: &empty})
	require.NoError(t, err)
	assert.Nil(t, cleared.VideoURL)
	assert.JSONEq(t, `{"club_speed":96.5,"path":"in-to-out"}`, string(cleared.AnalysisData))
}

func TestSwingService_ListByUserAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc, err := NewSwingService(f.store, f.rec, model.StatusSubmitted)
	require.NoError(t, err)
	other := seedUser(t, f.store, "other@example.com", model.RoleConsumer)

	mine, err := svc.Create(ctx, f.user.ID, at("2024-06-01T10:00:00Z"), "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, at("2024-06-02T10:00:00Z"), "")
	require.NoError(t, err)

	page, err := svc.List(ctx, f.user.ID, "", pagination.Normalize(1, 0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].ID)

	all, err := svc.List(ctx, uuid.Nil, "submitted", pagination.Normalize(1, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Meta.TotalItems)

	_, err = svc.List(ctx, uuid.Nil, "prepping", pagination.Normalize(1, 0, 10))
	requireType(t, err, apperror.TypeInvalidInput)

	require.NoError(t, svc.Delete(ctx, mine.ID))
	requireType(t, svc.Delete(ctx, mine.ID), apperror.TypeNotFound)
}
