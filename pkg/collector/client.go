package collector

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/ganesha-exporter/internal/logger"
	"github.com/marmos91/ganesha-exporter/pkg/ganesha"
)

// ClientCollector exposes per-client I/O counters for every protocol
// version a client is actively using, labeled by client address.
//
// A client whose record query does not come back "OK" contributes nothing
// this scrape; it reappears on the next scrape that succeeds. A record the
// decoder rejects is a layout mismatch and fails the scrape visibly instead
// of reading as zero ops.
type ClientCollector struct {
	src ganesha.StatsSource

	// ioOps holds one descriptor per (protocol, op, field); the
	// other/transferred cell stays nil, no such counter exists.
	ioOps [ganesha.ProtocolCount][3][3]*prometheus.Desc
}

var _ prometheus.Collector = (*ClientCollector)(nil)

// opDisplay matches the daemon's own casing in stat descriptions.
var opDisplay = map[ganesha.OpClass]string{
	ganesha.OpRead:  "READ",
	ganesha.OpWrite: "WRITE",
	ganesha.OpOther: "other",
}

// NewClientCollector creates the client sub-collector.
func NewClientCollector(src ganesha.StatsSource) *ClientCollector {
	c := &ClientCollector{src: src}
	for _, proto := range ganesha.Protocols {
		for _, op := range []ganesha.OpClass{ganesha.OpRead, ganesha.OpWrite, ganesha.OpOther} {
			for _, field := range []ganesha.FieldKind{ganesha.FieldTotal, ganesha.FieldErrors, ganesha.FieldTransferred} {
				if op == ganesha.OpOther && field == ganesha.FieldTransferred {
					continue
				}
				c.ioOps[proto][op][field] = gaugeDesc("client",
					"io_ops_"+proto.Tag()+"_"+op.String()+"_"+field.String(),
					proto.String()+" "+opDisplay[op]+" "+field.String(),
					"addr")
			}
		}
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *ClientCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, byOp := range c.ioOps {
		for _, byField := range byOp {
			for _, d := range byField {
				if d != nil {
					ch <- d
				}
			}
		}
	}
}

// Collect implements prometheus.Collector. One call queries the client
// list and then every client's record; a failure on one client does not
// stop collection for the rest.
func (c *ClientCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	addrs, err := c.src.ListClients(ctx)
	if err != nil {
		logger.Error("Client list query failed: %v", err)
		ch <- prometheus.NewInvalidMetric(c.ioOps[0][0][0], err)
		return
	}

	for _, addr := range addrs {
		rec, err := c.src.ClientIOStats(ctx, addr)
		if err != nil {
			logger.Error("I/O stats query for client %s failed: %v", addr, err)
			ch <- prometheus.NewInvalidMetric(c.ioOps[0][0][0], err)
			continue
		}
		if rec.Status != "OK" {
			logger.Debug("Skipping client %s: status %q", addr, rec.Status)
			continue
		}

		decoded, err := ganesha.DecodeClientIO(rec.Stats)
		if err != nil {
			logger.Error("Undecodable I/O record for client %s: %v", addr, err)
			ch <- prometheus.NewInvalidMetric(c.ioOps[0][0][0], err)
			continue
		}
		for _, st := range decoded {
			ch <- prometheus.MustNewConstMetric(c.ioOps[st.Proto][st.Op][st.Field],
				prometheus.GaugeValue, float64(st.Value), addr)
		}
	}
}
