package database

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
	"github.com/Aleph-Alpha/dbfacade/pkg/logger"
	"github.com/Aleph-Alpha/dbfacade/pkg/metrics"
	"github.com/Aleph-Alpha/dbfacade/pkg/query"
	"github.com/Aleph-Alpha/dbfacade/pkg/tracer"
)

func TestDatabaseWithFXModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := NewMockLogger(ctrl)

	mockLogger.EXPECT().Info("Successfully connected to database", nil, gomock.Any()).Times(1)
	mockLogger.EXPECT().Info("shutting down database connection...", nil, gomock.Any()).Times(1)
	mockLogger.EXPECT().Info("Database connection closed", nil, gomock.Any()).Times(1)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	observer := &recordingObserver{}

	var db *Database
	app := fxtest.New(t,
		fx.Provide(
			func() connector.Config {
				return memoryConfig()
			},
			func() Logger {
				return mockLogger
			},
			func() Observer {
				return observer
			},
		),
		FXModule,
		fx.Populate(&db),
	)

	app.RequireStart()
	require.NotNil(t, db)

	ctx := context.Background()
	row, err := db.SQL("SELECT 1 AS one").First(ctx)
	require.NoError(t, err)
	assert.Equal(t, query.Row{"one": int64(1)}, row)
	assert.Equal(t, 1, observer.count("raw"))

	app.RequireStop()

	_, err = db.SQL("SELECT 1").All(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, observer.closed)
}

func TestFXModuleFailsOnBadConfig(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() connector.Config {
			return connector.Config{Driver: "oracle"}
		}),
		FXModule,
		fx.Invoke(func(*Database) {}),
	)

	assert.ErrorIs(t, app.Err(), ErrConfiguration)
}

func TestFXModuleWiresObservabilityModules(t *testing.T) {
	var (
		db  *Database
		log *logger.Logger
		m   *metrics.Metrics
		tr  *tracer.Tracer
	)
	app := fxtest.New(t,
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		fx.Provide(
			func() logger.Config { return logger.Config{Level: logger.Error} },
			func() metrics.Config { return metrics.Config{Address: "127.0.0.1:0", ServiceName: "billing"} },
			func() tracer.Config { return tracer.Config{ServiceName: "billing"} },
			func() connector.Config { return memoryConfig() },
		),
		FXModule,
		fx.Populate(&db, &log, &m, &tr),
	)

	app.RequireStart()
	require.NotNil(t, db)

	assert.Same(t, log, db.logger)
	assert.Same(t, m.Queries, db.metrics)
	assert.Same(t, tr, db.tracer)

	_, err := db.SQL("SELECT 1 AS one").All(context.Background())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry, "dbfacade_queries_total", "dbfacade_open_connections")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	app.RequireStop()
}

func TestFXModulePrefersExplicitInterfaces(t *testing.T) {
	observer := &recordingObserver{}

	var db *Database
	app := fxtest.New(t,
		logger.FXModule,
		fx.Provide(
			func() logger.Config { return logger.Config{Level: logger.Error} },
			func() connector.Config { return memoryConfig() },
			func() Logger { return nopLogger{} },
			func() Observer { return observer },
		),
		FXModule,
		fx.Populate(&db),
	)

	app.RequireStart()
	assert.Equal(t, nopLogger{}, db.logger)
	assert.Same(t, observer, db.metrics)
	assert.Nil(t, db.tracer)
	app.RequireStop()

	assert.Equal(t, 1, observer.opened)
	assert.Equal(t, 1, observer.closed)
}
