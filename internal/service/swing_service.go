package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/observability"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/repository"
)

const msgSwingNotFound = "Swing analysis not found"

// SwingService manages swing analyses. Unlike fittings they keep no
// progress log.
type SwingService struct {
	store   *repository.Store
	pub     events.Publisher
	initial model.Status
}

// NewSwingService fails when initial is not a swing status.
func NewSwingService(store *repository.Store, pub events.Publisher, initial model.Status) (*SwingService, error) {
	if !model.SwingStatuses.Contains(initial) {
		return nil, &model.InvalidStatusError{Raw: string(initial), Allowed: model.SwingStatuses}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &SwingService{store: store, pub: pub, initial: initial}, nil
}

type SwingPatch struct {
	Date         *time.Time
	Status       *string
	Comments     *string
	VideoURL     *string
	AnalysisData json.RawMessage
}

func (s *SwingService) Create(ctx context.Context, userID uuid.UUID, date time.Time, comments string) (*model.SwingAnalysis, error) {
	if userID == uuid.Nil || date.IsZero() {
		return nil, apperror.InvalidInput("User ID and date are required")
	}

	sw := &model.SwingAnalysis{
		UserID:   userID,
		Date:     date.UTC(),
		Comments: comments,
		Status:   s.initial,
	}
	if _, err := s.store.Users.FindByID(ctx, userID); err != nil {
		return nil, storeErr("find user", "User not found", err)
	}
	if err := s.store.Swings.Create(ctx, sw); err != nil {
		return nil, storeErr("create swing analysis", msgSwingNotFound, err)
	}

	publish(ctx, s.pub, events.RKSwingCreated, events.SwingCreated{
		SwingID: sw.ID.String(),
		UserID:  userID.String(),
		Date:    sw.Date,
		Status:  string(sw.Status),
	})
	return s.Get(ctx, sw.ID)
}

func (s *SwingService) Get(ctx context.Context, id uuid.UUID) (*model.SwingAnalysis, error) {
	sw, err := s.store.Swings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get swing analysis", msgSwingNotFound, err)
	}
	return sw, nil
}

func (s *SwingService) List(
	ctx context.Context,
	userID uuid.UUID,
	rawStatus string,
	req pagination.Request,
) (pagination.Page[model.SwingAnalysis], error) {
	filter := repository.ListFilter{UserID: userID}
	if rawStatus != "" {
		st, err := model.SwingStatuses.Parse(rawStatus)
		if err != nil {
			return pagination.Page[model.SwingAnalysis]{}, apperror.InvalidInput(err.Error())
		}
		filter.Status = st
	}

	items, total, err := s.store.Swings.List(ctx, filter, req.Limit, req.Offset())
	if err != nil {
		return pagination.Page[model.SwingAnalysis]{}, storeErr("list swing analyses", msgSwingNotFound, err)
	}
	return newPage(items, req, total), nil
}

func (s *SwingService) SetStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*model.SwingAnalysis, error) {
	return s.Update(ctx, id, SwingPatch{Status: &rawStatus})
}

func (s *SwingService) Update(ctx context.Context, id uuid.UUID, patch SwingPatch) (*model.SwingAnalysis, error) {
	var status model.Status
	if patch.Status != nil {
		st, err := model.SwingStatuses.Parse(*patch.Status)
		if err != nil {
			return nil, apperror.InvalidInput(err.Error())
		}
		status = st
	}

	updates := map[string]any{}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return nil, apperror.InvalidInput("Date must not be empty")
		}
		updates["date"] = patch.Date.UTC()
	}
	if status != "" {
		updates["status"] = status
	}
	if patch.Comments != nil {
		updates["comments"] = *patch.Comments
	}
	if patch.VideoURL != nil {
		// an empty URL clears the column
		if v := strings.TrimSpace(*patch.VideoURL); v != "" {
			updates["video_url"] = v
		} else {
			updates["video_url"] = nil
		}
	}
	if len(patch.AnalysisData) > 0 {
		if !json.Valid(patch.AnalysisData) {
			return nil, apperror.InvalidInput("analysis_data must be valid JSON")
		}
		updates["analysis_data"] = datatypes.JSON(patch.AnalysisData)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	ctx, span := observability.StartSpan(ctx, "swing.update",
		attribute.String("swing.id", id.String()),
		attribute.String("swing.status", string(status)),
	)
	err := s.store.Swings.Update(ctx, id, updates)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, storeErr("update swing analysis", msgSwingNotFound, err)
	}

	sw, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status != "" {
		observability.IncStatusTransition("swing", string(status))
		publish(ctx, s.pub, events.RKSwingStatusChanged, events.StatusChanged{
			ID:        id.String(),
			UserID:    sw.UserID.String(),
			Status:    string(status),
			ChangedAt: sw.UpdatedAt,
		})
	}
	return sw, nil
}

func (s *SwingService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr("delete swing analysis", msgSwingNotFound, s.store.Swings.Delete(ctx, id))
}
