package collector

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/marmos91/ganesha-exporter/pkg/ganesha"
)

// fakeSource is a scriptable StatsSource for collector tests.
type fakeSource struct {
	global    ganesha.GlobalStats
	globalErr error

	exports    ganesha.ExportStats
	exportsErr error

	clients    []string
	clientsErr error

	io    map[string]ganesha.ClientIOStats
	ioErr map[string]error
}

var _ ganesha.StatsSource = (*fakeSource)(nil)

func (f *fakeSource) GlobalStats(context.Context) (ganesha.GlobalStats, error) {
	return f.global, f.globalErr
}

func (f *fakeSource) ExportStats(context.Context) (ganesha.ExportStats, error) {
	return f.exports, f.exportsErr
}

func (f *fakeSource) ListClients(context.Context) ([]string, error) {
	return f.clients, f.clientsErr
}

func (f *fakeSource) ClientIOStats(_ context.Context, addr string) (ganesha.ClientIOStats, error) {
	if err := f.ioErr[addr]; err != nil {
		return ganesha.ClientIOStats{}, err
	}
	return f.io[addr], nil
}

// gather collects one collector through a fresh registry and indexes the
// families by metric name.
func gather(t *testing.T, c prometheus.Collector) map[string]*dto.MetricFamily {
	t.Helper()

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

// gaugeValue returns the value of the family's single sample and its label
// pairs.
func gaugeValue(t *testing.T, mf *dto.MetricFamily) (float64, map[string]string) {
	t.Helper()

	if len(mf.GetMetric()) != 1 {
		t.Fatalf("%s has %d samples, want 1", mf.GetName(), len(mf.GetMetric()))
	}
	m := mf.GetMetric()[0]
	labels := make(map[string]string)
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	return m.GetGauge().GetValue(), labels
}
