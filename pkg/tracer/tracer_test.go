package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Aleph-Alpha/dbfacade/pkg/logger"
)

func newRecordedTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	core, _ := observer.New(zap.InfoLevel)
	tr := New(Config{ServiceName: "billing", AppEnv: "test"}, logger.NewFromCore(core), trace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr, recorder
}

func attributes(span trace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestStartSpanAndAttributes(t *testing.T) {
	tr, recorder := newRecordedTracer(t)

	ctx, parent := tr.StartSpan(context.Background(), "parent")
	_, child := tr.StartSpan(ctx, "database.execute")
	tr.SetAttributes(child, map[string]interface{}{
		"db.system":   "mysql",
		"rows":        3,
		"id":          int64(7),
		"ratio":       0.5,
		"cached":      true,
		"tables":      []string{"users", "orders"},
		"unsupported": struct{ A int }{1},
	})
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "database.execute", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())

	attrs := attributes(spans[0])
	assert.Equal(t, "mysql", attrs["db.system"].AsString())
	assert.Equal(t, int64(3), attrs["rows"].AsInt64())
	assert.Equal(t, int64(7), attrs["id"].AsInt64())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.True(t, attrs["cached"].AsBool())
	assert.Equal(t, []string{"users", "orders"}, attrs["tables"].AsStringSlice())
	assert.Equal(t, "{1}", attrs["unsupported"].AsString())

	res := spans[0].Resource()
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" {
			found = true
			assert.Equal(t, "billing", kv.Value.AsString())
		}
	}
	assert.True(t, found)
}

func TestRecordErrorOnSpan(t *testing.T) {
	tr, recorder := newRecordedTracer(t)

	_, span := tr.StartSpan(context.Background(), "failing")
	tr.RecordErrorOnSpan(span, errors.New("duplicate key"))
	tr.RecordErrorOnSpan(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "duplicate key", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestSetAttributesIgnoresEmpty(t *testing.T) {
	tr, recorder := newRecordedTracer(t)

	_, span := tr.StartSpan(context.Background(), "plain")
	tr.SetAttributes(span, nil)
	span.End()

	assert.Empty(t, recorder.Ended()[0].Attributes())
}

func TestFXModule(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var tr *Tracer
	app := fxtest.New(t,
		fx.Provide(
			func() Config { return Config{ServiceName: "billing"} },
			func() *logger.Logger { return logger.NewFromCore(core) },
		),
		FXModule,
		fx.Populate(&tr),
	)

	app.RequireStart()
	require.NotNil(t, tr)
	app.RequireStop()

	assert.Equal(t, 1, logs.FilterMessage("shutting down tracer...").Len())
}
