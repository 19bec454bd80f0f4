package model

import "gorm.io/gorm"

// AutoMigrate migrates every entity of the fittings service.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&FittingRequest{},
		&FittingProgress{},
		&SwingAnalysis{},
		&GettingStartedMessage{},
		&AdminTask{},
	)
}
