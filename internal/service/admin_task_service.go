package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/repository"
)

// AdminTaskService records admin follow-ups against fitting requests.
type AdminTaskService struct {
	store *repository.Store
}

func NewAdminTaskService(store *repository.Store) *AdminTaskService {
	return &AdminTaskService{store: store}
}

func (s *AdminTaskService) TaskTypes() []model.AdminTaskType {
	out := make([]model.AdminTaskType, len(model.AdminTaskTypes))
	copy(out, model.AdminTaskTypes)
	return out
}

func (s *AdminTaskService) TaskType(raw string) (model.AdminTaskType, error) {
	t, err := model.ParseAdminTaskType(raw)
	if err != nil {
		return "", apperror.NotFound("Admin task type not found")
	}
	return t, nil
}

func (s *AdminTaskService) CreateTask(ctx context.Context, fittingID uuid.UUID, rawTask string) (*model.AdminTask, error) {
	if fittingID == uuid.Nil || strings.TrimSpace(rawTask) == "" {
		return nil, apperror.InvalidInput("Fitting request ID and task type are required")
	}
	task, err := model.ParseAdminTaskType(rawTask)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid task type")
	}

	t := &model.AdminTask{FittingRequestID: fittingID, Task: task}
	err = s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		if _, err := tx.Fittings.LockByID(ctx, fittingID); err != nil {
			return err
		}
		return tx.AdminTasks.Create(ctx, t)
	})
	if err != nil {
		return nil, storeErr("create admin task", msgFittingNotFound, err)
	}
	return t, nil
}

func (s *AdminTaskService) ListTasks(ctx context.Context, fittingID uuid.UUID) ([]model.AdminTask, error) {
	if _, err := s.store.Fittings.GetByID(ctx, fittingID); err != nil {
		return nil, storeErr("find fitting", msgFittingNotFound, err)
	}
	tasks, err := s.store.AdminTasks.ListByFitting(ctx, fittingID)
	if err != nil {
		return nil, storeErr("list admin tasks", msgFittingNotFound, err)
	}
	if tasks == nil {
		tasks = []model.AdminTask{}
	}
	return tasks, nil
}
