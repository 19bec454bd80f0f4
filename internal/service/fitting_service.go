package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/calendar"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/observability"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/repository"
)

const (
	msgFittingNotFound = "Fitting request not found"
	msgDayTaken        = "There is already a fitting scheduled for this day"
)

type FittingOptions struct {
	// Location cuts calendar days for the reschedule check; nil means UTC.
	Location *time.Location
	// IgnoreCanceled leaves canceled fittings out of the reschedule
	// conflict set. Off by default: any fitting occupies its day.
	IgnoreCanceled bool
}

// FittingService owns the fitting status lifecycle and the one-fitting-per-day
// reschedule rule.
type FittingService struct {
	store *repository.Store
	pub   events.Publisher
	opts  FittingOptions
	now   func() time.Time
}

func NewFittingService(store *repository.Store, pub events.Publisher, opts FittingOptions) *FittingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &FittingService{
		store: store,
		pub:   pub,
		opts:  opts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// FittingPatch is a partial update; nil fields are left untouched.
type FittingPatch struct {
	Date     *time.Time
	Status   *string
	Comments *string
}

func (s *FittingService) Create(ctx context.Context, userID uuid.UUID, date time.Time, comments string) (*model.FittingRequest, error) {
	if userID == uuid.Nil || date.IsZero() {
		return nil, apperror.InvalidInput("User ID and date are required")
	}

	ctx, span := observability.StartSpan(ctx, "fitting.create")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	f := &model.FittingRequest{
		UserID:   userID,
		Date:     date.UTC(),
		Comments: comments,
		Status:   model.StatusSubmitted,
	}
	err = s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		if _, err := tx.Users.FindByID(ctx, userID); err != nil {
			return storeErr("find user", "User not found", err)
		}
		if err := tx.Fittings.Create(ctx, f); err != nil {
			return err
		}
		return tx.Fittings.AppendProgress(ctx, &model.FittingProgress{
			FittingRequestID: f.ID,
			Step:             model.StepFor(model.StatusSubmitted),
			CompletedAt:      s.now(),
		})
	})
	if err != nil {
		err = storeErr("create fitting", msgFittingNotFound, err)
		return nil, err
	}

	publish(ctx, s.pub, events.RKFittingCreated, events.FittingCreated{
		FittingID: f.ID.String(),
		UserID:    userID.String(),
		Date:      f.Date,
	})
	return s.Get(ctx, f.ID)
}

func (s *FittingService) Get(ctx context.Context, id uuid.UUID) (*model.FittingRequest, error) {
	f, err := s.store.Fittings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get fitting", msgFittingNotFound, err)
	}
	return f, nil
}

// List returns fittings newest date first. A zero userID lists every user;
// an empty status does not filter.
func (s *FittingService) List(
	ctx context.Context,
	userID uuid.UUID,
	rawStatus string,
	req pagination.Request,
) (pagination.Page[model.FittingRequest], error) {
	filter := repository.ListFilter{UserID: userID}
	if rawStatus != "" {
		st, err := model.FittingStatuses.Parse(rawStatus)
		if err != nil {
			return pagination.Page[model.FittingRequest]{}, apperror.InvalidInput(err.Error())
		}
		filter.Status = st
	}

	items, total, err := s.store.Fittings.List(ctx, filter, req.Limit, req.Offset())
	if err != nil {
		return pagination.Page[model.FittingRequest]{}, storeErr("list fittings", msgFittingNotFound, err)
	}
	return newPage(items, req, total), nil
}

// SetStatus writes the status and appends exactly one progress entry, in one
// transaction. Any status may follow any other, including itself.
func (s *FittingService) SetStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*model.FittingRequest, error) {
	return s.Update(ctx, id, FittingPatch{Status: &rawStatus})
}

// Update applies a partial change. A status in the patch is validated before
// anything is written and appends a progress entry like SetStatus.
func (s *FittingService) Update(ctx context.Context, id uuid.UUID, patch FittingPatch) (*model.FittingRequest, error) {
	var status model.Status
	if patch.Status != nil {
		st, err := model.FittingStatuses.Parse(*patch.Status)
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
	if patch.Comments != nil {
		updates["comments"] = *patch.Comments
	}
	if status != "" {
		updates["status"] = status
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	ctx, span := observability.StartSpan(ctx, "fitting.update",
		attribute.String("fitting.id", id.String()),
		attribute.String("fitting.status", string(status)),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	changedAt := s.now()
	err = s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		if err := tx.Fittings.Update(ctx, id, updates); err != nil {
			return err
		}
		if status == "" {
			return nil
		}
		return tx.Fittings.AppendProgress(ctx, &model.FittingProgress{
			FittingRequestID: id,
			Step:             model.StepFor(status),
			CompletedAt:      changedAt,
		})
	})
	if err != nil {
		err = storeErr("update fitting", msgFittingNotFound, err)
		return nil, err
	}

	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status != "" {
		observability.IncStatusTransition("fitting", string(status))
		publish(ctx, s.pub, events.RKFittingStatusChanged, events.StatusChanged{
			ID:        id.String(),
			UserID:    f.UserID.String(),
			Status:    string(status),
			ChangedAt: changedAt,
		})
	}
	return f, nil
}

// Reschedule moves the fitting to at, unless another fitting already has a
// date on the same calendar day. Check and write share one serializable
// transaction with the target row locked.
func (s *FittingService) Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (*model.FittingRequest, error) {
	if at.IsZero() {
		return nil, apperror.InvalidInput("Appointment time is required")
	}

	ctx, span := observability.StartSpan(ctx, "fitting.reschedule",
		attribute.String("fitting.id", id.String()),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	var (
		previous time.Time
		owner    uuid.UUID
	)
	err = s.store.Transaction(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(tx *repository.Store) error {
		cur, err := tx.Fittings.LockByID(ctx, id)
		if err != nil {
			return err
		}
		previous, owner = cur.Date, cur.UserID

		taken, err := tx.Fittings.ExistsInRange(ctx, id, calendar.DayBounds(at, s.opts.Location), s.opts.IgnoreCanceled)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict(msgDayTaken)
		}

		if err := tx.Fittings.Update(ctx, id, map[string]any{"date": at.UTC()}); err != nil {
			return err
		}
		return tx.Fittings.AppendProgress(ctx, &model.FittingProgress{
			FittingRequestID: id,
			Step:             model.StepRescheduled,
			CompletedAt:      s.now(),
		})
	})
	if err != nil {
		err = rescheduleErr(err)
		if apperror.Is(err, apperror.TypeConflict) {
			observability.IncRescheduleConflict()
		}
		return nil, err
	}

	publish(ctx, s.pub, events.RKFittingRescheduled, events.FittingRescheduled{
		FittingID: id.String(),
		UserID:    owner.String(),
		From:      previous,
		To:        at.UTC(),
	})
	return s.Get(ctx, id)
}

// rescheduleErr reports a lost serialization race like the day check does.
func rescheduleErr(err error) error {
	if isSerializationFailure(err) {
		return apperror.Conflict(msgDayTaken)
	}
	return storeErr("reschedule fitting", msgFittingNotFound, err)
}

// Delete removes the fitting with its progress log and admin tasks.
func (s *FittingService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		return tx.Fittings.Delete(ctx, id)
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		observability.LoggerFromContext(ctx).Error().Err(err).Str("fitting_id", id.String()).Msg("delete fitting")
	}
	return storeErr("delete fitting", msgFittingNotFound, err)
}
