package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"barklounge/models"
)

func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(&models.StoredToken{}); err != nil {
		log.Error("error running migrations", zap.Error(err))
		return err
	}

	log.Info("migrations completed successfully")
	return nil
}
