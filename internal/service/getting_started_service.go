package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/repository"
)

const msgMessageNotFound = "Getting started message not found"

// GettingStartedService keeps at most one message active: every write that
// activates a message clears the other flags in the same transaction.
type GettingStartedService struct {
	store *repository.Store
	pub   events.Publisher
}

func NewGettingStartedService(store *repository.Store, pub events.Publisher) *GettingStartedService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &GettingStartedService{store: store, pub: pub}
}

type MessagePatch struct {
	Message  *string
	IsActive *bool
}

// Create stores message as the new active message.
func (s *GettingStartedService) Create(ctx context.Context, userID uuid.UUID, message string) (*model.GettingStartedMessage, error) {
	if userID == uuid.Nil || strings.TrimSpace(message) == "" {
		return nil, apperror.InvalidInput("User ID and message are required")
	}

	m := &model.GettingStartedMessage{UserID: userID, Message: message, IsActive: true}
	err := s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		if err := tx.GettingStarted.DeactivateAll(ctx, uuid.Nil); err != nil {
			return err
		}
		return tx.GettingStarted.Create(ctx, m)
	})
	if err != nil {
		return nil, storeErr("create getting started message", msgMessageNotFound, err)
	}

	s.announce(ctx, m)
	return s.Get(ctx, m.ID)
}

func (s *GettingStartedService) Get(ctx context.Context, id uuid.UUID) (*model.GettingStartedMessage, error) {
	m, err := s.store.GettingStarted.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get getting started message", msgMessageNotFound, err)
	}
	return m, nil
}

func (s *GettingStartedService) Active(ctx context.Context) (*model.GettingStartedMessage, error) {
	m, err := s.store.GettingStarted.Active(ctx)
	if err != nil {
		return nil, storeErr("get active message", "No active getting started message", err)
	}
	return m, nil
}

func (s *GettingStartedService) List(ctx context.Context, req pagination.Request) (pagination.Page[model.GettingStartedMessage], error) {
	items, total, err := s.store.GettingStarted.List(ctx, req.Limit, req.Offset())
	if err != nil {
		return pagination.Page[model.GettingStartedMessage]{}, storeErr("list getting started messages", msgMessageNotFound, err)
	}
	return newPage(items, req, total), nil
}

func (s *GettingStartedService) Update(ctx context.Context, id uuid.UUID, patch MessagePatch) (*model.GettingStartedMessage, error) {
	updates := map[string]any{}
	if patch.Message != nil {
		if strings.TrimSpace(*patch.Message) == "" {
			return nil, apperror.InvalidInput("Message must not be empty")
		}
		updates["message"] = *patch.Message
	}
	activate := patch.IsActive != nil && *patch.IsActive
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	err := s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		if activate {
			if err := tx.GettingStarted.DeactivateAll(ctx, id); err != nil {
				return err
			}
		}
		return tx.GettingStarted.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, storeErr("update getting started message", msgMessageNotFound, err)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if activate {
		s.announce(ctx, m)
	}
	return m, nil
}

// Delete refuses to remove the active message.
func (s *GettingStartedService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Transaction(ctx, nil, func(tx *repository.Store) error {
		m, err := tx.GettingStarted.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m.IsActive {
			return apperror.InvalidInput("Cannot delete the active getting started message")
		}
		return tx.GettingStarted.Delete(ctx, id)
	})
	return storeErr("delete getting started message", msgMessageNotFound, err)
}

func (s *GettingStartedService) announce(ctx context.Context, m *model.GettingStartedMessage) {
	publish(ctx, s.pub, events.RKGettingStartedActivated, events.GettingStartedActivated{
		MessageID: m.ID.String(),
		Message:   m.Message,
	})
}
