package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const pingTimeout = 5 * time.Second

// Ping checks that the global connection can still reach the database.
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("database not connected")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
