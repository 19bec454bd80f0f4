package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminTaskType is a follow-up an admin records against a fitting request.
type AdminTaskType string

const (
	TaskAcknowledgeRequest     AdminTaskType = "acknowledge_request"
	TaskScheduleSwingAnalysis  AdminTaskType = "schedule_swing_analysis"
	TaskSwingAnalysisCompleted AdminTaskType = "swing_analysis_completed"
	TaskFittingScheduled       AdminTaskType = "fitting_scheduled"
	TaskFittingCanceled        AdminTaskType = "fitting_canceled"
	TaskFittingCompleted       AdminTaskType = "fitting_completed"
)

var AdminTaskTypes = []AdminTaskType{
	TaskAcknowledgeRequest,
	TaskScheduleSwingAnalysis,
	TaskSwingAnalysisCompleted,
	TaskFittingScheduled,
	TaskFittingCanceled,
	TaskFittingCompleted,
}

// ParseAdminTaskType matches case-insensitively.
func ParseAdminTaskType(raw string) (AdminTaskType, error) {
	norm := AdminTaskType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range AdminTaskTypes {
		if t == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown admin task type %q", raw)
}

// admin_tasks
type AdminTask struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FittingRequestID uuid.UUID     `gorm:"type:uuid;not null;index" json:"fittingRequestId"`
	Task             AdminTaskType `gorm:"type:varchar(64);not null;index" json:"task"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	FittingRequest *FittingRequest `gorm:"foreignKey:FittingRequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (t *AdminTask) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
