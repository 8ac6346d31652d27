// Package database provides a fluent query facade over a single database
// connection.
//
// A Database owns one connection, one grammar and one query builder. Calls
// such as Table, Where or Desc accumulate query intent; nothing is validated
// or sent until a terminal call builds the SQL, prepares it on the
// connection and runs it.
//
// Lifecycle:
//
//	Fresh ──chain──▶ Building ──Execute──▶ Executed
//	  ▲                                      │
//	  └────────── Clear (All, First, *Now) ◀─┘
//
// All, First and the immediate-mode calls (InsertNow, UpdateByKey,
// DeleteByKey) always clear the accumulated state before returning, so no
// predicate, limit or model binding leaks into the next query. A statement
// runs at most once per cycle: Execute followed by All does not re-run it.
//
// Basic Usage:
//
//	db, err := database.New(connector.Config{
//		Driver: "mysql",
//		Host:   "localhost",
//		DbName: "app",
//	})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	// Raw rows
//	rows, err := db.Table("users").
//		Where("age", ">=", 18, query.And).
//		OrLike("name", "jo%").
//		Desc("created_at").
//		Limit(10).
//		All(ctx)
//
//	// Hydrated models
//	if err := db.SetModel(database.StructModel[User](), "users"); err != nil {
//		return err
//	}
//	user, err := database.FirstAs[*User](ctx, db.Where("id", "=", 7, query.And))
//
//	// Immediate mode
//	_, err = db.Table("users").InsertNow(ctx, map[string]any{"name": "alice"})
//	id, err := db.LastInsertID()
//	_, err = db.Table("users").UpdateByKey(ctx, map[string]any{"id": id, "name": "alicia"}, "id")
//	_, err = db.Table("users").DeleteByKey(ctx, "id", id)
//
// Errors:
//
// Every failure is returned to the caller; nothing is retried. Configuration
// problems wrap ErrConfiguration, failures to connect wrap ErrConnection and
// everything that goes wrong while building, running or fetching a statement
// wraps ErrStatement. Constraint violations additionally wrap ErrDuplicateKey
// or ErrForeignKey when the dialect reports them.
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		tracer.FXModule,
//		fx.Provide(
//			func() logger.Config { return logCfg },
//			func() metrics.Config { return metricsCfg },
//			func() tracer.Config { return tracerCfg },
//			func() connector.Config { return cfg },
//		),
//		database.FXModule,
//	)
//
// The facade then logs through the zap logger, reports to the query metrics
// and opens a span per statement. Providing the Logger, Observer or Tracer
// interfaces directly takes precedence over those modules.
//
// Thread Safety:
//
// A Database is not safe for concurrent use. Use one instance per goroutine.
package database
