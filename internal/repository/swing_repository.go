package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/golfworks/fittings/internal/model"
)

type SwingRepository interface {
	Create(ctx context.Context, s *model.SwingAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SwingAnalysis, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]model.SwingAnalysis, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormSwingRepository struct {
	db *gorm.DB
}

func NewGormSwingRepository(db *gorm.DB) *GormSwingRepository {
	return &GormSwingRepository{db: db}
}

func (r *GormSwingRepository) Create(ctx context.Context, s *model.SwingAnalysis) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *GormSwingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SwingAnalysis, error) {
	var s model.SwingAnalysis
	if err := r.db.WithContext(ctx).Preload("User").First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormSwingRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]model.SwingAnalysis, int64, error) {
	var (
		swings []model.SwingAnalysis
		total  int64
	)

	q := filter.apply(r.db.WithContext(ctx).Model(&model.SwingAnalysis{}))
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Preload("User").Order("date DESC").Order("id").Find(&swings).Error; err != nil {
		return nil, 0, err
	}
	return swings, total, nil
}

func (r *GormSwingRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return updateByID(ctx, r.db, &model.SwingAnalysis{}, id, updates)
}

func (r *GormSwingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.SwingAnalysis{}, id)
}
