package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
)

const connectTimeout = 5 * time.Second

// Connect opens the Postgres pool and verifies it with a ping. gorm logs go
// through zap; unique violations come back as gorm.ErrDuplicatedKey.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         queryLogger(log, cfg.SlowQuery),
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres %s/%s: %w", cfg.Host, cfg.Name, err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql pool: %w", err)
	}
	applyPool(pool, cfg.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres %s/%s: %w", cfg.Host, cfg.Name, err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("name", cfg.Name),
		zap.Int("max_open", cfg.Pool.MaxOpen),
	)
	return db, nil
}

func queryLogger(log *zap.Logger, slow time.Duration) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func applyPool(pool *sql.DB, p config.PoolConfig) {
	pool.SetMaxOpenConns(p.MaxOpen)
	pool.SetMaxIdleConns(p.MaxIdle)
	pool.SetConnMaxLifetime(p.MaxLifetime)
	pool.SetConnMaxIdleTime(p.MaxIdleTime)
}

// indexes that AutoMigrate cannot express through struct tags.
var indexes = []struct{ name, ddl string }{
	{"idx_operators_email_lower", `CREATE UNIQUE INDEX IF NOT EXISTS idx_operators_email_lower ON operators (LOWER(email))`},
	{"idx_operator_skills_operator_created", `CREATE INDEX IF NOT EXISTS idx_operator_skills_operator_created ON operator_skills (operator_id, created_at DESC)`},
}

// Migrate creates or updates tables for models, then the expression indexes,
// in one transaction.
func Migrate(db *gorm.DB, log *zap.Logger, models ...any) error {
	start := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		for _, idx := range indexes {
			if err := tx.Exec(idx.ddl).Error; err != nil {
				return fmt.Errorf("index %s: %w", idx.name, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}

	log.Info("migrations applied",
		zap.Int("models", len(models)),
		zap.Int("indexes", len(indexes)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	pool, err := db.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	pool, err := db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
