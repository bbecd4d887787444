package util

import (
	"context"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/racelog-analytics/pkg/config"
)

const traceIDHeader = "X-Trace-ID"

type (
	configInjector  struct{ config *config.Config }
	traceIDInjector struct{}
)

// NewAppContextInterceptor puts the engine configuration into the request
// context, see config.FromContext
func NewAppContextInterceptor(cfg *config.Config) connect.Interceptor {
	return &configInjector{config: cfg}
}

//nolint:whitespace // better readability
func (i *configInjector) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return connect.UnaryFunc(func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		return next(config.NewContext(ctx, i.config), req)
	})
}

//nolint:whitespace // readablity, editor/linter
func (i *configInjector) WrapStreamingClient(
	next connect.StreamingClientFunc,
) connect.StreamingClientFunc {
	return next
}

//nolint:whitespace // readablity, editor/linter
func (i *configInjector) WrapStreamingHandler(
	next connect.StreamingHandlerFunc,
) connect.StreamingHandlerFunc {
	return connect.StreamingHandlerFunc(func(
		ctx context.Context,
		conn connect.StreamingHandlerConn,
	) error {
		return next(config.NewContext(ctx, i.config), conn)
	})
}

// NewTraceIDInterceptor adds the trace id of the request span as response
// header
func NewTraceIDInterceptor() connect.Interceptor {
	return &traceIDInjector{}
}

//nolint:whitespace // better readability
func (i *traceIDInjector) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return connect.UnaryFunc(func(
		ctx context.Context,
		req connect.AnyRequest,
	) (connect.AnyResponse, error) {
		res, err := next(ctx, req)
		if err != nil {
			return nil, err
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			res.Header().Set(traceIDHeader, sc.TraceID().String())
		}
		return res, nil
	})
}

//nolint:whitespace // readablity, editor/linter
func (i *traceIDInjector) WrapStreamingClient(
	next connect.StreamingClientFunc,
) connect.StreamingClientFunc {
	return next
}

//nolint:whitespace // readablity, editor/linter
func (i *traceIDInjector) WrapStreamingHandler(
	next connect.StreamingHandlerFunc,
) connect.StreamingHandlerFunc {
	return next
}
