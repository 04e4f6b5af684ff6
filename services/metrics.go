package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// CatalogFallbackTotal counts reads served from the fallback catalog
	// because the product store failed.
	CatalogFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallback_total",
			Help: "Catalog reads answered from the fallback dataset",
		},
		[]string{"operation"},
	)

	// CatalogSchemaRetryTotal counts writes retried without optional columns.
	CatalogSchemaRetryTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_schema_retry_total",
			Help: "Product writes retried without optional columns",
		},
	)

	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)
)

// Collectors returns the service metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{CatalogFallbackTotal, CatalogSchemaRetryTotal, CacheRequestsTotal}
}
