package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing configuration.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool
	SlowQueryThresh  time.Duration
	DBSystem         string
	WithoutVariables bool
}

// DefaultDBTracingConfig returns a tracing configuration with sane defaults:
// slow-query threshold of 200ms and SQL variables redacted.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          true,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin instruments GORM database operations with OpenTelemetry spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a GORM tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm attaches the otelgorm plugin plus slow-query callbacks
// to the given GORM database handle.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB, dbName string) error {
	if !p.config.Enabled {
		p.logger.Info("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(dbName),
	}
	if p.config.WithoutVariables && !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm plugin: %w", err)
	}

	if err := p.registerCallbacks(db); err != nil {
		return fmt.Errorf("failed to register tracing callbacks: %w", err)
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.Bool("log_full_sql", p.config.LogFullSQL),
	)
	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "telemetry:query_start_time"

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		name     string
		register func() error
	}{
		{"create", func() error {
			if err := db.Callback().Create().Before("gorm:create").Register("telemetry:before_create", p.before); err != nil {
				return err
			}
			return db.Callback().Create().After("gorm:create").Register("telemetry:after_create", p.after)
		}},
		{"query", func() error {
			if err := db.Callback().Query().Before("gorm:query").Register("telemetry:before_query", p.before); err != nil {
				return err
			}
			return db.Callback().Query().After("gorm:query").Register("telemetry:after_query", p.after)
		}},
		{"update", func() error {
			if err := db.Callback().Update().Before("gorm:update").Register("telemetry:before_update", p.before); err != nil {
				return err
			}
			return db.Callback().Update().After("gorm:update").Register("telemetry:after_update", p.after)
		}},
		{"delete", func() error {
			if err := db.Callback().Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before); err != nil {
				return err
			}
			return db.Callback().Delete().After("gorm:delete").Register("telemetry:after_delete", p.after)
		}},
		{"row", func() error {
			if err := db.Callback().Row().Before("gorm:row").Register("telemetry:before_row", p.before); err != nil {
				return err
			}
			return db.Callback().Row().After("gorm:row").Register("telemetry:after_row", p.after)
		}},
		{"raw", func() error {
			if err := db.Callback().Raw().Before("gorm:raw").Register("telemetry:before_raw", p.before); err != nil {
				return err
			}
			return db.Callback().Raw().After("gorm:raw").Register("telemetry:after_raw", p.after)
		}},
	}

	for _, cb := range callbacks {
		if err := cb.register(); err != nil {
			return fmt.Errorf("register %s callbacks: %w", cb.name, err)
		}
	}
	return nil
}

func (p *DBTracingPlugin) before(tx *gorm.DB) {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return
	}
	tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartTimeKey, time.Now())
}

func (p *DBTracingPlugin) after(tx *gorm.DB) {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return
	}

	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.Int64("db.rows_affected", tx.RowsAffected),
	)
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	start, ok := tx.Statement.Context.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed >= p.config.SlowQueryThresh {
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.String("db.operation.duration", elapsed.String()),
			attribute.String("db.slow_query_threshold", p.config.SlowQueryThresh.String()),
		))
		p.logger.Warn("Slow database query detected",
			zap.Duration("duration", elapsed),
			zap.Duration("threshold", p.config.SlowQueryThresh),
			zap.String("table", tx.Statement.Table),
		)
	}
}
