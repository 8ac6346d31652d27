// Package metrics exposes Prometheus metrics for the database facade.
//
// NewMetrics builds a registry (optionally with the Go runtime and process
// collectors), registers the query collectors and prepares an HTTP server
// serving the registry. QueryMetrics is handed to the facade:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "billing"})
//	db, err := database.New(cfg, database.WithMetrics(m.Queries))
//
// Exported series (namespace "dbfacade" by default):
//
//	dbfacade_queries_total{driver,kind,status}
//	dbfacade_query_duration_seconds{driver,kind}
//	dbfacade_open_connections{driver}
package metrics
