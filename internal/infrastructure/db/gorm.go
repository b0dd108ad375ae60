package db

import (
	"log/slog"
	"time"

	"loan-ledger/internal/domain/covenant"
	"loan-ledger/internal/domain/ledger"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/domain/participation"
	"loan-ledger/internal/domain/principal"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector opens, tunes the pool and pings. Duplicate-key errors
// are translated to gorm.ErrDuplicatedKey.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		// pinged below, after the pool is tuned
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	slog.Info("gorm: connected", "dialect", dial.Name())
	return db, nil
}

// Models lists every table the ledger owns, in migration order.
func Models() []any {
	return []any{
		&principal.Agent{},
		&loan.Loan{},
		&principal.RoleAssignment{},
		&ledger.LoanEvent{},
		&participation.Participation{},
		&covenant.Covenant{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
