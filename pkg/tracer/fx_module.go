package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/dbfacade/pkg/logger"
)

// FXModule provides *Tracer and flushes and shuts the provider down when the
// application stops. It takes its logger from logger.FXModule.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewTracerWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams are the dependencies NewTracerWithDI takes from fx.
type TracerParams struct {
	fx.In

	Config Config
	Logger *logger.Logger
}

// NewTracerWithDI builds the client with NewClient.
func NewTracerWithDI(params TracerParams) *Tracer {
	return NewClient(params.Config, params.Logger)
}

// RegisterTracerLifecycle shuts the provider down when the application stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer...", nil, nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("tracer was nil during shutdown", nil, nil)
				return nil
			}
			return tracer.Shutdown(ctx)
		},
	})
}
