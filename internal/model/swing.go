package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// swing_analyses
type SwingAnalysis struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`

	Date     time.Time `gorm:"not null;index" json:"date"`
	Comments string    `gorm:"type:text" json:"comments"`
	Status   Status    `gorm:"type:varchar(32);not null;index" json:"status"`

	VideoURL     *string        `gorm:"type:text" json:"video_url"`
	AnalysisData datatypes.JSON `gorm:"type:jsonb" json:"analysis_data"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (s *SwingAnalysis) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
