package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fitting_requests
type FittingRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`

	// Appointment time, stored in UTC.
	Date     time.Time `gorm:"not null;index" json:"date"`
	Comments string    `gorm:"type:text" json:"comments"`
	Status   Status    `gorm:"type:varchar(32);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User              *User             `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FittingProgresses []FittingProgress `gorm:"foreignKey:FittingRequestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"fittingProgresses"`
}

func (f *FittingRequest) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// fitting_progresses; append-only audit of transitions.
type FittingProgress struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Position in the fitting's log, 1-based; assigned on append.
	Seq int64 `gorm:"not null;uniqueIndex:idx_progress_fitting_seq,priority:2" json:"-"`

	FittingRequestID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_fitting_seq,priority:1" json:"fittingRequestId"`
	Step             ProgressStep `gorm:"type:varchar(32);not null" json:"step"`
	CompletedAt      time.Time    `gorm:"not null" json:"completed_at"`
}

func (p *FittingProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
