package database

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
	"github.com/Aleph-Alpha/dbfacade/pkg/logger"
	"github.com/Aleph-Alpha/dbfacade/pkg/metrics"
	"github.com/Aleph-Alpha/dbfacade/pkg/tracer"
)

// FXModule provides a *Database built from connector.Config and closes it
// when the application stops.
//
// Logging, metrics and tracing are wired from whatever the container holds:
// the Logger, Observer and Tracer interfaces when provided explicitly,
// otherwise the *logger.Logger, *metrics.QueryMetrics and *tracer.Tracer
// provided by logger.FXModule, metrics.FXModule and tracer.FXModule.
var FXModule = fx.Module("database",
	fx.Provide(NewDatabaseWithDI),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// DatabaseParams are the dependencies NewDatabaseWithDI takes from fx.
type DatabaseParams struct {
	fx.In

	Config  connector.Config
	Logger  Logger   `optional:"true"`
	Metrics Observer `optional:"true"`
	Tracer  Tracer   `optional:"true"`

	ZapLogger    *logger.Logger        `optional:"true"`
	QueryMetrics *metrics.QueryMetrics `optional:"true"`
	OtelTracer   *tracer.Tracer        `optional:"true"`
}

// NewDatabaseWithDI builds the facade from params. Explicit interface
// dependencies win over the concrete ones.
func NewDatabaseWithDI(params DatabaseParams) (*Database, error) {
	var opts []Option

	switch {
	case params.Logger != nil:
		opts = append(opts, WithLogger(params.Logger))
	case params.ZapLogger != nil:
		opts = append(opts, WithLogger(params.ZapLogger))
	}

	switch {
	case params.Metrics != nil:
		opts = append(opts, WithMetrics(params.Metrics))
	case params.QueryMetrics != nil:
		opts = append(opts, WithMetrics(params.QueryMetrics))
	}

	switch {
	case params.Tracer != nil:
		opts = append(opts, WithTracer(params.Tracer))
	case params.OtelTracer != nil:
		opts = append(opts, WithTracer(params.OtelTracer))
	}

	return New(params.Config, opts...)
}

// RegisterDatabaseLifecycle closes the facade when the application stops.
func RegisterDatabaseLifecycle(lc fx.Lifecycle, db *Database) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.logger.Info("shutting down database connection...", nil, nil)
			return db.Close()
		},
	})
}
