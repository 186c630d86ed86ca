package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: User and Vocabulary must be migrated before their dependents
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserSession{},
		&Vocabulary{},
		&RdfClass{},
		&Property{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
