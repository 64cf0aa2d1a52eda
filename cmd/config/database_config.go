package config

import (
	"fmt"
	"recipe-catalog/cmd/database"
	"recipe-catalog/internal/utils"
	"strings"

	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	driver := strings.ToLower(utils.GetConfig("DB_DRIVER"))
	return database.Open(driver, dataSourceName(driver), utils.GetConfig("DB_LOG_LEVEL"))
}

func dataSourceName(driver string) string {
	if driver == database.DriverSQLite {
		return utils.GetConfig("SQLITE_PATH")
	}
	if dsn := utils.GetConfig("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
		utils.GetConfig("DB_SSLMODE"),
		utils.GetConfig("DB_TIMEZONE"),
	)
}
