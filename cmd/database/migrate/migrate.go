package migration

import (
	"fmt"
	"recipe-catalog/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		return fmt.Errorf("migrate recipes table: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
