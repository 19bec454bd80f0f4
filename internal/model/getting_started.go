package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// getting_started_messages; at most one row has IsActive=true.
type GettingStartedMessage struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"not null;default:false;index" json:"isActive"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (m *GettingStartedMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
