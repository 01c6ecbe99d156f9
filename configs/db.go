package configs

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"milano/pkg/logger"
	"milano/repository"
	"milano/repository/memstore"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenStore returns the backing mode named by DB_DRIVER. The relational
// modes are migrated before they are returned.
func OpenStore(cfg *Config) (repository.Store, error) {
	if cfg.DBDriver == "memory" {
		logger.Default().Info("using in-memory store")
		return memstore.New(), nil
	}

	db, err := openGorm(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Default().WithField("driver", cfg.DBDriver).Info("database connected")
	return repository.NewRelationalStore(db), nil
}

// gormConfig stamps rows in UTC so stored times compare correctly against
// UTC range bounds whatever the process time zone is.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// sqliteDSN turns on foreign keys so order_items cascade with their order.
func sqliteDSN(src string) string {
	if strings.Contains(src, "_foreign_keys=") || strings.Contains(src, "_fk=") {
		return src
	}
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "_foreign_keys=on"
}

func openGorm(cfg *Config) (*gorm.DB, error) {
	gcfg := gormConfig()

	switch cfg.DBDriver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DBSource)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBSource, err)
		}
		return db, nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DBSource)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
