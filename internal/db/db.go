// Package db opens the configured database and prepares its schema.
package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/db/dsn"
	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/db/repository"
	"github.com/fieldcrew/crewaccess/internal/logger"
	"github.com/fieldcrew/crewaccess/internal/permission"
)

// ErrUnknownEngine is returned for an unsupported db.engine.
var ErrUnknownEngine = errors.New("unknown database engine")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.Engine {
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(cfg)), nil
	case config.EngineMySQL:
		return mysql.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

// Open connects to the configured database.
func Open(cfg config.DB, logCfg logger.Log) (*gorm.DB, error) {
	if cfg.Engine == config.EngineSQLite && cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	return OpenDialector(dialector, cfg, logCfg)
}

// OpenDialector connects through an already built dialector and applies the pool settings.
func OpenDialector(dialector gorm.Dialector, cfg config.DB, logCfg logger.Log) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogSQL {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(logCfg).LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	switch {
	case cfg.Engine == config.EngineSQLite:
		// one writer; an in-memory database also lives on a single connection
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return gdb, nil
}

// Migrate creates or updates the schema and seeds the permission catalog with the
// global template roles.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if err := gdb.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := repository.New(gdb)
	if err != nil {
		return err
	}

	if err = permission.SeedCatalog(ctx, store); err != nil {
		return fmt.Errorf("failed to seed permission catalog: %w", err)
	}

	log.Info().
		Int("permissions", len(permission.Permissions)).
		Int("roles", len(permission.Roles)).
		Msg("database migrated and permission catalog seeded")

	return nil
}
