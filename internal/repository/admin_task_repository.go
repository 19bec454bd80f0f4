package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/golfworks/fittings/internal/model"
)

type AdminTaskRepository interface {
	Create(ctx context.Context, t *model.AdminTask) error
	ListByFitting(ctx context.Context, fittingID uuid.UUID) ([]model.AdminTask, error)
}

type GormAdminTaskRepository struct {
	db *gorm.DB
}

func NewGormAdminTaskRepository(db *gorm.DB) *GormAdminTaskRepository {
	return &GormAdminTaskRepository{db: db}
}

func (r *GormAdminTaskRepository) Create(ctx context.Context, t *model.AdminTask) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

func (r *GormAdminTaskRepository) ListByFitting(ctx context.Context, fittingID uuid.UUID) ([]model.AdminTask, error) {
	var tasks []model.AdminTask
	err := r.db.WithContext(ctx).
		Where("fitting_request_id = ?", fittingID).
		Order("created_at ASC").
		Order("id").
		Find(&tasks).Error
	return tasks, err
}
