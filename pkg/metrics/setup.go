package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry, the HTTP server exposing it and the query
// collectors the database facade reports to.
type Metrics struct {
	Server   *http.Server
	Registry *prometheus.Registry
	Queries  *QueryMetrics

	serviceName string
}

// NewMetrics creates the registry, registers the query collectors (and the
// Go, process and build collectors when enabled) labelled with the service
// name, and prepares the HTTP server exposing them.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	queries := NewQueryMetrics(namespace)
	wrappedRegistry.MustRegister(queries.Collectors()...)

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	server := &http.Server{
		Addr:    address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	return &Metrics{
		Server:      server,
		Registry:    registry,
		Queries:     queries,
		serviceName: cfg.ServiceName,
	}
}
