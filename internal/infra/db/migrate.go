package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Migrate creates or updates the schema at dsn.
func Migrate(ctx context.Context, dsn string) error {
	if dsn == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := gdb.WithContext(ctx).AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
