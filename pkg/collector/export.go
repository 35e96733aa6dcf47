package collector

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/ganesha-exporter/internal/logger"
	"github.com/marmos91/ganesha-exporter/pkg/ganesha"
)

// ExportCollector exposes daemon-wide operation totals per protocol version
// and the current export count.
//
// The per-protocol gauges carry the daemon's status string as a label; when
// the daemon reports failure the values are zero, never fabricated, so a
// failed query is distinguishable from a daemon doing nothing.
type ExportCollector struct {
	src ganesha.StatsSource

	totalOps [ganesha.ProtocolCount]*prometheus.Desc
	count    *prometheus.Desc
}

var _ prometheus.Collector = (*ExportCollector)(nil)

// NewExportCollector creates the export sub-collector.
func NewExportCollector(src ganesha.StatsSource) *ExportCollector {
	c := &ExportCollector{src: src}
	for _, proto := range ganesha.Protocols {
		c.totalOps[proto] = gaugeDesc("export",
			"total_ops_"+proto.Tag(),
			"Total number of "+proto.String()+" ops",
			"status")
	}
	c.count = gaugeDesc("export", "count", "Number of active exports")
	return c
}

// Describe implements prometheus.Collector.
func (c *ExportCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.totalOps {
		ch <- d
	}
	ch <- c.count
}

// Collect implements prometheus.Collector. Each call is one complete query
// cycle; no values survive from previous scrapes.
func (c *ExportCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	global, err := c.src.GlobalStats(ctx)
	if err != nil {
		logger.Error("Global stats query failed: %v", err)
		ch <- prometheus.NewInvalidMetric(c.totalOps[ganesha.ProtoNFSv3], err)
	} else {
		for _, proto := range ganesha.Protocols {
			var total uint64
			if global.Success {
				total = global.Totals[proto]
			}
			ch <- prometheus.MustNewConstMetric(c.totalOps[proto],
				prometheus.GaugeValue, float64(total), global.Status)
		}
	}

	exports, err := c.src.ExportStats(ctx)
	if err != nil {
		logger.Error("Export stats query failed: %v", err)
		ch <- prometheus.NewInvalidMetric(c.count, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.count,
		prometheus.GaugeValue, float64(exports.Count))
}
