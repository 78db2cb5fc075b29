package db

import (
	"fmt"

	"github.com/escuela-dev/escuela/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectDatabase opens the global connection. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey on every driver.
func ConnectDatabase(driver, dsn string) error {
	d, err := dialector(driver, dsn)
	if err != nil {
		return err
	}

	conn, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open %s database: %w", driver, err)
	}

	DB = conn
	return nil
}

func MigrateDatabase() error {
	return DB.AutoMigrate(
		&models.UserDetail{},
		&models.User{},
		&models.Career{},
		&models.Enrollment{},
		&models.Payment{},
		&models.Message{},
	)
}
