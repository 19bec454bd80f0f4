package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/golfworks/fittings/internal/calendar"
	"github.com/golfworks/fittings/internal/model"
)

type FittingRepository interface {
	Create(ctx context.Context, f *model.FittingRequest) error
	// GetByID loads the request with its owner and progress log in insertion order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.FittingRequest, error)
	// LockByID selects the bare row FOR UPDATE; sqlite ignores the lock.
	LockByID(ctx context.Context, id uuid.UUID) (*model.FittingRequest, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]model.FittingRequest, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// AppendProgress stores p as the next entry of its fitting's log. Callers
	// hold the fitting row (update or lock) in the same transaction.
	AppendProgress(ctx context.Context, p *model.FittingProgress) error
	// ExistsInRange reports whether a request other than excludeID has its
	// date inside tr.
	ExistsInRange(ctx context.Context, excludeID uuid.UUID, tr calendar.TimeRange, ignoreCanceled bool) (bool, error)
	// Delete removes the request with its progress log and admin tasks.
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormFittingRepository struct {
	db *gorm.DB
}

func NewGormFittingRepository(db *gorm.DB) *GormFittingRepository {
	return &GormFittingRepository{db: db}
}

func preloadFitting(q *gorm.DB) *gorm.DB {
	return q.
		Preload("User").
		Preload("FittingProgresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}

func (r *GormFittingRepository) Create(ctx context.Context, f *model.FittingRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
}

func (r *GormFittingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.FittingRequest, error) {
	var f model.FittingRequest
	if err := preloadFitting(r.db.WithContext(ctx)).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormFittingRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.FittingRequest, error) {
	var f model.FittingRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormFittingRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]model.FittingRequest, int64, error) {
	var (
		fittings []model.FittingRequest
		total    int64
	)

	q := filter.apply(r.db.WithContext(ctx).Model(&model.FittingRequest{}))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := preloadFitting(q).Order("date DESC").Order("id").Find(&fittings).Error; err != nil {
		return nil, 0, err
	}
	return fittings, total, nil
}

func (r *GormFittingRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return updateByID(ctx, r.db, &model.FittingRequest{}, id, updates)
}

func (r *GormFittingRepository) AppendProgress(ctx context.Context, p *model.FittingProgress) error {
	db := r.db.WithContext(ctx)
	if p.Seq == 0 {
		var last int64
		err := db.Model(&model.FittingProgress{}).
			Where("fitting_request_id = ?", p.FittingRequestID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&last).Error
		if err != nil {
			return err
		}
		p.Seq = last + 1
	}
	return db.Create(p).Error
}

func (r *GormFittingRepository) ExistsInRange(
	ctx context.Context,
	excludeID uuid.UUID,
	tr calendar.TimeRange,
	ignoreCanceled bool,
) (bool, error) {
	tr = tr.UTC()
	q := r.db.WithContext(ctx).
		Model(&model.FittingRequest{}).
		Where("id <> ?", excludeID).
		Where("date >= ? AND date < ?", tr.Start, tr.End)
	if ignoreCanceled {
		q = q.Where("status <> ?", model.StatusCanceled)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormFittingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("fitting_request_id = ?", id).Delete(&model.FittingProgress{}).Error; err != nil {
		return err
	}
	if err := db.Where("fitting_request_id = ?", id).Delete(&model.AdminTask{}).Error; err != nil {
		return err
	}
	return deleteByID(ctx, r.db, &model.FittingRequest{}, id)
}
