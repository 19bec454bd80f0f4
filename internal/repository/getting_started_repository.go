package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/golfworks/fittings/internal/model"
)

type GettingStartedRepository interface {
	Create(ctx context.Context, m *model.GettingStartedMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.GettingStartedMessage, error)
	Active(ctx context.Context) (*model.GettingStartedMessage, error)
	List(ctx context.Context, limit, offset int) ([]model.GettingStartedMessage, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// DeactivateAll clears every active flag except the one on keepID.
	DeactivateAll(ctx context.Context, keepID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormGettingStartedRepository struct {
	db *gorm.DB
}

func NewGormGettingStartedRepository(db *gorm.DB) *GormGettingStartedRepository {
	return &GormGettingStartedRepository{db: db}
}

func (r *GormGettingStartedRepository) Create(ctx context.Context, m *model.GettingStartedMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *GormGettingStartedRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GettingStartedMessage, error) {
	var m model.GettingStartedMessage
	if err := r.db.WithContext(ctx).Preload("User").First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormGettingStartedRepository) Active(ctx context.Context) (*model.GettingStartedMessage, error) {
	var m model.GettingStartedMessage
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormGettingStartedRepository) List(ctx context.Context, limit, offset int) ([]model.GettingStartedMessage, int64, error) {
	var (
		msgs  []model.GettingStartedMessage
		total int64
	)

	q := r.db.WithContext(ctx).Model(&model.GettingStartedMessage{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Preload("User").Order("created_at DESC").Order("id").Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *GormGettingStartedRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return updateByID(ctx, r.db, &model.GettingStartedMessage{}, id, updates)
}

func (r *GormGettingStartedRepository) DeactivateAll(ctx context.Context, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.GettingStartedMessage{}).
		Where("is_active = ? AND id <> ?", true, keepID).
		Update("is_active", false).Error
}

func (r *GormGettingStartedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.GettingStartedMessage{}, id)
}
