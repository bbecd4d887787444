package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/racelog-analytics/log"
)

type (
	queryLogger struct {
		log   *log.Logger
		level log.Level
	}
	queryStartKey struct{}
)

// NewQueryLogger logs each statement with its arguments and duration
func NewQueryLogger(logger *log.Logger, level log.Level) pgx.QueryTracer {
	return &queryLogger{log: logger, level: level}
}

//nolint:whitespace // can't make both editor and linter happy
func (t *queryLogger) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	if !t.log.Enabled(t.level) {
		return ctx
	}
	t.log.Log(t.level, "Executing",
		log.String("sql", data.SQL),
		log.Any("args", data.Args))
	return context.WithValue(ctx, queryStartKey{}, time.Now())
}

//nolint:whitespace // can't make both editor and linter happy
func (t *queryLogger) TraceQueryEnd(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	fields := []log.Field{
		log.String("tag", data.CommandTag.String()),
		log.Duration("duration", time.Since(start)),
	}
	if data.Err != nil {
		fields = append(fields, log.ErrorField(data.Err))
	}
	t.log.Log(t.level, "Executed", fields...)
}
