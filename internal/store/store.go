// Package store persists pipeline results to Postgres. Writes are
// idempotent upserts keyed by the same uniqueness the pipeline
// guarantees: (symbol, date) per granularity, plus the week type for
// the weekly table. Re-running a pipeline therefore converges instead
// of duplicating.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"seasoncli/internal/seasonality"
)

// Store wraps the database handle.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&DailyRow{}, &WeeklyRow{}, &MonthlyRow{}, &YearlyRow{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// SaveResult upserts all five series of one pipeline run.
func (s *Store) SaveResult(ctx context.Context, symbol string, res seasonality.Result) error {
	daily := make([]DailyRow, 0, len(res.Daily))
	for _, d := range res.Daily {
		daily = append(daily, newDailyRow(symbol, d))
	}

	weekly := make([]WeeklyRow, 0, len(res.MondayWeekly)+len(res.ExpiryWeekly))
	for _, w := range res.MondayWeekly {
		weekly = append(weekly, newWeeklyRow(symbol, w))
	}
	for _, w := range res.ExpiryWeekly {
		weekly = append(weekly, newWeeklyRow(symbol, w))
	}

	monthly := make([]MonthlyRow, 0, len(res.Monthly))
	for _, m := range res.Monthly {
		monthly = append(monthly, newMonthlyRow(symbol, m))
	}

	yearly := make([]YearlyRow, 0, len(res.Yearly))
	for _, y := range res.Yearly {
		yearly = append(yearly, newYearlyRow(symbol, y))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, daily, []string{"symbol", "date"}); err != nil {
			return fmt.Errorf("upsert daily: %w", err)
		}
		if err := upsert(tx, weekly, []string{"symbol", "date", "week_type"}); err != nil {
			return fmt.Errorf("upsert weekly: %w", err)
		}
		if err := upsert(tx, monthly, []string{"symbol", "date"}); err != nil {
			return fmt.Errorf("upsert monthly: %w", err)
		}
		if err := upsert(tx, yearly, []string{"symbol", "date"}); err != nil {
			return fmt.Errorf("upsert yearly: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "persisted pipeline result",
		"symbol", symbol,
		"daily", len(daily),
		"weekly", len(weekly),
		"monthly", len(monthly),
		"yearly", len(yearly),
	)
	return nil
}

// upsert writes a batch with ON CONFLICT DO UPDATE on the uniqueness
// columns. Empty batches are a no-op.
func upsert[T any](tx *gorm.DB, rows []T, conflictCols []string) error {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]clause.Column, 0, len(conflictCols))
	for _, c := range conflictCols {
		columns = append(columns, clause.Column{Name: c})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   columns,
		UpdateAll: true,
	}).CreateInBatches(rows, 500).Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
