package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger and flushes it when the application stops.
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle handles cleanup (sync) of the Zap logger.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr can not be synced on some platforms
			_ = client.Zap.Sync()
			return nil
		},
	})
}
