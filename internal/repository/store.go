package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/golfworks/fittings/internal/model"
)

// Store bundles the repositories bound to one gorm handle. Inside
// Transaction every repository of the callback's Store shares the tx.
type Store struct {
	db *gorm.DB

	Users          UserRepository
	Fittings       FittingRepository
	Swings         SwingRepository
	GettingStarted GettingStartedRepository
	AdminTasks     AdminTaskRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewGormUserRepository(db),
		Fittings:       NewGormFittingRepository(db),
		Swings:         NewGormSwingRepository(db),
		GettingStarted: NewGormGettingStartedRepository(db),
		AdminTasks:     NewGormAdminTaskRepository(db),
	}
}

// Transaction runs fn in one database transaction. A nil opts uses the
// driver's default isolation.
func (s *Store) Transaction(ctx context.Context, opts *sql.TxOptions, fn func(tx *Store) error) error {
	txFn := func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	}
	if opts == nil {
		return s.db.WithContext(ctx).Transaction(txFn)
	}
	return s.db.WithContext(ctx).Transaction(txFn, opts)
}

// ListFilter narrows list queries; zero fields do not filter.
type ListFilter struct {
	UserID uuid.UUID
	Status model.Status
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// updateByID applies updates to a single row and reports a missing row as
// gorm.ErrRecordNotFound.
func updateByID(ctx context.Context, db *gorm.DB, m any, id uuid.UUID, updates map[string]any) error {
	res := db.WithContext(ctx).Model(m).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, m any, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
