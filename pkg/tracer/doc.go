// Package tracer provides OpenTelemetry tracing for the database facade.
//
// A Tracer owns a tracer provider with the service name and environment as
// resource attributes. When export is enabled, spans are batched to an OTLP
// HTTP collector configured through the standard OTEL_EXPORTER_OTLP_*
// variables.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{Level: "info"})
//
//	tracerClient := tracer.NewClient(tracer.Config{
//		ServiceName:  "billing",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//
//	db, err := database.New(cfg, database.WithTracer(tracerClient))
//
// Every statement the facade executes then produces a "database.execute"
// span carrying db.system, db.operation and db.statement attributes; failed
// statements record the error and set the span status to Error.
//
// Spans can be opened around application code as well:
//
//	ctx, span := tracerClient.StartSpan(ctx, "import-users")
//	defer span.End()
//	tracerClient.SetAttributes(span, map[string]interface{}{"batch": 12})
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(
//			func() logger.Config { return logger.Config{Level: "info"} },
//			func() tracer.Config { return tracer.Config{ServiceName: "billing"} },
//		),
//		tracer.FXModule,
//	)
//
// Thread Safety:
//
// All methods are safe for concurrent use by multiple goroutines.
package tracer
