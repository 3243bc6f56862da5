package common

import (
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectTokenDb opens the sqlite file that backs the persistent token
// store. It returns nil when no path is configured or the file can't be opened.
func ConnectTokenDb(path string, log *zap.Logger) *gorm.DB {
	if path == "" {
		log.Info("TOKEN_DB not set, persistent token store disabled")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("error opening token sqlite db", zap.String("path", path), zap.Error(err))
		return nil
	}
	log.Info("opened token sqlite db", zap.String("path", path))
	return db
}
