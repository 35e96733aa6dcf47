package ganesha

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/godbus/dbus/v5"
)

// DBus endpoints of the NFS-Ganesha statistics interface.
const (
	busName = "org.ganesha.nfsd"

	exportMgrPath = "/org/ganesha/nfsd/ExportMgr"
	clientMgrPath = "/org/ganesha/nfsd/ClientMgr"

	exportStatsIface = "org.ganesha.nfsd.exportstats"
	exportMgrIface   = "org.ganesha.nfsd.exportmgr"
	clientStatsIface = "org.ganesha.nfsd.clientstats"
	clientMgrIface   = "org.ganesha.nfsd.clientmgr"
)

// DBusConfig configures the DBus-backed StatsSource.
type DBusConfig struct {
	// UseSessionBus selects the session bus instead of the system bus.
	// Ganesha registers on the system bus in production; the session bus
	// is useful against a daemon started by hand.
	UseSessionBus bool

	// CallTimeout bounds every statistics call. Zero means 5s.
	CallTimeout time.Duration
}

func (c *DBusConfig) applyDefaults() {
	if c.CallTimeout <= 0 {
		c.CallTimeout = 5 * time.Second
	}
}

// DBusSource queries a running NFS-Ganesha daemon over DBus.
//
// Ganesha's replies are loosely typed: counters arrive as variant arrays
// whose slots are scalars or nested arrays, and the client-list entry shape
// changed between ganesha 3 and 4. All of that variance is normalized here,
// once, at ingestion; the rest of the package sees only the types.go model.
type DBusSource struct {
	conn    *dbus.Conn
	timeout time.Duration
}

var _ StatsSource = (*DBusSource)(nil)

// NewDBusSource connects to the bus and returns a StatsSource backed by it.
func NewDBusSource(cfg DBusConfig) (*DBusSource, error) {
	cfg.applyDefaults()

	connect := dbus.ConnectSystemBus
	if cfg.UseSessionBus {
		connect = dbus.ConnectSessionBus
	}
	conn, err := connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bus: %w", err)
	}

	return &DBusSource{conn: conn, timeout: cfg.CallTimeout}, nil
}

// Close releases the bus connection.
func (d *DBusSource) Close() error {
	return d.conn.Close()
}

// call performs one bounded statistics call and returns the raw reply body.
func (d *DBusSource) call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	obj := d.conn.Object(busName, path)
	c := obj.CallWithContext(ctx, method, 0, args...)
	if c.Err != nil {
		return nil, fmt.Errorf("dbus call %s failed: %w", method, c.Err)
	}
	return c.Body, nil
}

// GlobalStats implements StatsSource.
func (d *DBusSource) GlobalStats(ctx context.Context) (GlobalStats, error) {
	body, err := d.call(ctx, exportMgrPath, exportStatsIface+".GetGlobalOPS")
	if err != nil {
		return GlobalStats{}, err
	}
	return normalizeGlobalStats(body)
}

// ExportStats implements StatsSource.
func (d *DBusSource) ExportStats(ctx context.Context) (ExportStats, error) {
	body, err := d.call(ctx, exportMgrPath, exportMgrIface+".ShowExports")
	if err != nil {
		return ExportStats{}, err
	}
	list, ok := lastSlice(body)
	if !ok {
		return ExportStats{}, fmt.Errorf("ShowExports reply carries no export list")
	}
	return ExportStats{Count: uint32(list.Len())}, nil
}

// ListClients implements StatsSource.
func (d *DBusSource) ListClients(ctx context.Context) ([]string, error) {
	body, err := d.call(ctx, clientMgrPath, clientMgrIface+".ShowClients")
	if err != nil {
		return nil, err
	}
	return normalizeClientList(body)
}

// ClientIOStats implements StatsSource.
func (d *DBusSource) ClientIOStats(ctx context.Context, addr string) (ClientIOStats, error) {
	body, err := d.call(ctx, clientMgrPath, clientStatsIface+".GetClientIOops", addr)
	if err != nil {
		return ClientIOStats{}, err
	}
	return normalizeClientIOStats(body), nil
}

// normalizeGlobalStats interprets a GetGlobalOPS reply: a success flag, a
// status string, a timestamp, then one scalar total per protocol in record
// order. Trailing totals beyond the four NFS protocols (MNT, NLM, ...) are
// ignored.
func normalizeGlobalStats(body []any) (GlobalStats, error) {
	var (
		st        GlobalStats
		gotStatus bool
		totals    int
	)
	for _, el := range body {
		el = unwrapVariant(el)
		switch {
		case !gotStatus:
			if b, ok := asBool(el); ok {
				st.Success = b
				continue
			}
			if s, ok := asString(el); ok {
				st.Status = s
				gotStatus = true
			}
		case totals < ProtocolCount:
			if v, ok := asUint64(el); ok {
				st.Totals[totals] = v
				totals++
			}
		}
	}
	if !gotStatus {
		return GlobalStats{}, fmt.Errorf("GetGlobalOPS reply carries no status string")
	}
	return st, nil
}

// normalizeClientList extracts client addresses from a ShowClients reply.
//
// Ganesha 3 and 4 shape the entry differently (plain struct vs nested
// variants); both collapse to "first string in the entry is the address".
func normalizeClientList(body []any) ([]string, error) {
	list, ok := lastSlice(body)
	if !ok {
		return nil, fmt.Errorf("ShowClients reply carries no client list")
	}

	addrs := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		if addr, ok := firstString(list.Index(i).Interface()); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs, nil
}

// normalizeClientIOStats interprets a GetClientIOops reply: an optional
// success flag, the status string, then the positional slot sequence the
// decoder consumes (leading reserved region included).
func normalizeClientIOStats(body []any) ClientIOStats {
	var (
		st        ClientIOStats
		gotStatus bool
	)
	for _, el := range body {
		el = unwrapVariant(el)
		if !gotStatus {
			if _, ok := asBool(el); ok {
				continue
			}
			if s, ok := asString(el); ok {
				st.Status = s
				gotStatus = true
			}
			continue
		}
		if slot, ok := asSlot(el); ok {
			st.Stats = append(st.Stats, slot)
		}
	}
	return st
}

// unwrapVariant strips dbus variant wrapping, recursively.
func unwrapVariant(v any) any {
	for {
		variant, ok := v.(dbus.Variant)
		if !ok {
			return v
		}
		v = variant.Value()
	}
}

func asBool(v any) (bool, bool) {
	b, ok := unwrapVariant(v).(bool)
	return b, ok
}

func asString(v any) (string, bool) {
	s, ok := unwrapVariant(v).(string)
	return s, ok
}

// asUint64 widens any integer scalar a dbus reply may carry.
func asUint64(v any) (uint64, bool) {
	switch n := unwrapVariant(v).(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case byte:
		return uint64(n), true
	case int64:
		return uint64(n), true
	case int32:
		return uint64(n), true
	case int16:
		return uint64(n), true
	}
	return 0, false
}

// asSlot converts one reply element into a record slot: a scalar becomes a
// single-element slot (a presence flag), an array becomes a multi-field
// sub-record. Non-numeric elements are not slots.
func asSlot(v any) (StatSlot, bool) {
	v = unwrapVariant(v)
	if n, ok := asUint64(v); ok {
		return StatSlot{n}, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	slot := make(StatSlot, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		n, ok := asUint64(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		slot = append(slot, n)
	}
	return slot, true
}

// lastSlice returns the last slice-typed element of a reply body. Ganesha
// list replies put the payload array after a timestamp struct; taking the
// last slice tolerates both with and without the leading struct.
func lastSlice(body []any) (reflect.Value, bool) {
	for i := len(body) - 1; i >= 0; i-- {
		rv := reflect.ValueOf(unwrapVariant(body[i]))
		if rv.IsValid() && rv.Kind() == reflect.Slice {
			return rv, true
		}
	}
	return reflect.Value{}, false
}

// firstString finds the first string inside a client-list entry, however
// the entry is shaped (string, struct, or variant-wrapped struct).
func firstString(v any) (string, bool) {
	v = unwrapVariant(v)
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return "", false
	}
	for i := 0; i < rv.Len(); i++ {
		if s, ok := firstString(rv.Index(i).Interface()); ok {
			return s, true
		}
	}
	return "", false
}
