package repository

import "gorm.io/gorm"

// Migrate creates the tables the backend needs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&taskRow{}, &accountRow{}, &profileRow{})
}
