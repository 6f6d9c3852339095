package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/pkg/config"
)

var db *gorm.DB

// InitDB opens the PostgreSQL connection, configures the pool and migrates
// the schema. The (tenant_id, email) uniqueness on users is enforced here at
// the database level so concurrent signups race against the index, not
// against application logic.
func InitDB(cfg *config.Config) error {
	// PreferSimpleProtocol disables implicit prepared statement usage and
	// prevents "prepared statement already exists" errors behind pgbouncer.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	var err error
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
		// Map driver duplicate-key errors to gorm.ErrDuplicatedKey so the
		// store layer can surface conflicts deterministically.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Department{},
		&model.UserDepartment{},
		&model.Category{},
		&model.Article{},
		&model.DepartmentArticle{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
