package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultSlowQueryThreshold = 200 * time.Millisecond

// DBTracingConfig controls the database spans
type DBTracingConfig struct {
	Enabled bool
	// FullSQL keeps bound query variables in the span statement
	FullSQL       bool
	SlowThreshold time.Duration
	// System is reported as db.system, e.g. "postgresql" or "sqlite"
	System string
}

// DBTracing is a gorm plugin: otelgorm spans per statement, annotated with
// the table, affected rows and a slow query marker.
type DBTracing struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

var _ gorm.Plugin = (*DBTracing)(nil)

func NewDBTracing(cfg DBTracingConfig, log *zap.Logger) *DBTracing {
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = DefaultSlowQueryThreshold
	}
	if cfg.System == "" {
		cfg.System = "postgresql"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DBTracing{cfg: cfg, logger: log}
}

func (p *DBTracing) Name() string {
	return "dsi:db_tracing"
}

// Initialize is called by db.Use. A disabled plugin registers nothing.
func (p *DBTracing) Initialize(db *gorm.DB) error {
	if !p.cfg.Enabled {
		p.logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.System)}
	if !p.cfg.FullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("dsi:start_create", markQueryStart),
		cb.Create().After("gorm:create").Register("dsi:annotate_create", p.annotate),
		cb.Query().Before("gorm:query").Register("dsi:start_query", markQueryStart),
		cb.Query().After("gorm:query").Register("dsi:annotate_query", p.annotate),
		cb.Update().Before("gorm:update").Register("dsi:start_update", markQueryStart),
		cb.Update().After("gorm:update").Register("dsi:annotate_update", p.annotate),
		cb.Delete().Before("gorm:delete").Register("dsi:start_delete", markQueryStart),
		cb.Delete().After("gorm:delete").Register("dsi:annotate_delete", p.annotate),
		cb.Row().Before("gorm:row").Register("dsi:start_row", markQueryStart),
		cb.Row().After("gorm:row").Register("dsi:annotate_row", p.annotate),
		cb.Raw().Before("gorm:raw").Register("dsi:start_raw", markQueryStart),
		cb.Raw().After("gorm:raw").Register("dsi:annotate_raw", p.annotate),
	)
	if err != nil {
		return err
	}

	p.logger.Info("database tracing enabled",
		zap.String("db_system", p.cfg.System),
		zap.Bool("full_sql", p.cfg.FullSQL),
		zap.Duration("slow_threshold", p.cfg.SlowThreshold),
	)
	return nil
}

type queryStartKey struct{}

func markQueryStart(db *gorm.DB) {
	if ctx := db.Statement.Context; ctx != nil {
		db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
	}
}

func (p *DBTracing) annotate(db *gorm.DB) {
	stmt := db.Statement
	if stmt.Context == nil {
		return
	}
	span := trace.SpanFromContext(stmt.Context)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{attribute.Int64("db.rows_affected", max(stmt.RowsAffected, 0))}
	if stmt.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", stmt.Table))
	}

	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if start, ok := stmt.Context.Value(queryStartKey{}).(time.Time); ok {
		if took := time.Since(start); took > p.cfg.SlowThreshold {
			attrs = append(attrs,
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", took.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", took.Milliseconds()),
				attribute.Int64("threshold_ms", p.cfg.SlowThreshold.Milliseconds()),
			))
		}
	}
	span.SetAttributes(attrs...)
}
