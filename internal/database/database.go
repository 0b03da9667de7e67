package database

import (
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Surface unique-constraint violations as gorm.ErrDuplicatedKey so the
		// review service can translate them to a conflict.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema migration for every model of the app.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Location{},
		&models.Venue{},
		&models.Promotion{},
		&models.Review{},
		&models.OwnerResponse{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	)
}
