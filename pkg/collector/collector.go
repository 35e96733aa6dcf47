// Package collector projects NFS-Ganesha statistics into Prometheus
// gauges.
//
// Two collectors exist, one per sub-domain: export (daemon-wide totals and
// export count) and client (per-client I/O counters). Both are stateless;
// every scrape triggers a fresh query against the StatsSource and the
// resulting values are emitted as const metrics, so there is nothing to
// retain or reset between scrapes.
package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/ganesha-exporter/pkg/ganesha"
)

// namespace is the fixed prefix of every exported metric name.
const namespace = "nfs_ganesha"

// metricName builds "<namespace>_<subcollector>_<suffix>".
func metricName(subcollector, suffix string) string {
	return namespace + "_" + subcollector + "_" + suffix
}

// gaugeDesc builds the descriptor for one gauge of a sub-collector.
func gaugeDesc(subcollector, suffix, help string, labels ...string) *prometheus.Desc {
	return prometheus.NewDesc(metricName(subcollector, suffix), help, labels, nil)
}

// NewRegistry returns a private registry with both collectors registered
// against the given source. The collectors are registered independently so
// a failure in one does not keep the other from being collected.
func NewRegistry(src ganesha.StatsSource) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewExportCollector(src))
	reg.MustRegister(NewClientCollector(src))
	return reg
}
