// Package logger provides structured logging for the database facade and the
// services embedding it.
//
// It wraps Uber's zap with a small surface: every level takes a message, an
// optional error and optional maps of structured fields. Entries are JSON
// with ISO8601 timestamps and carry the process id and service name.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       "info",
//		ServiceName: "billing",
//	})
//
//	log.Info("User logged in", nil, map[string]interface{}{
//		"user_id": "12345",
//	})
//	log.Error("Failed to reach database", err, nil)
//
// *Logger satisfies database.Logger, so it can be handed to the facade:
//
//	db, err := database.New(cfg, database.WithLogger(log))
//
// Statements are logged at debug level with their SQL text; connection
// changes at info level; failures at error level.
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		// ... other modules
//	)
//
// Configuration:
//
//	ZAP_LOGGER_LEVEL=debug                # debug, info, warning, error
//	ZAP_LOGGER_SERVICE_NAME=billing       # "service" field, default "dbfacade"
//
// Thread Safety:
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
