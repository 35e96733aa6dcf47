package ganesha

import "context"

// StatsSource is the query interface the collectors depend on. It is the
// read-only contract of a running NFS-Ganesha daemon; the DBus adapter in
// this package is the production implementation, tests substitute fakes.
//
// Errors returned by these methods are transport failures only. A
// server-side failure is reported in-band: GlobalStats with Success=false,
// or ClientIOStats with Status != "OK".
//
// Implementations must be safe for concurrent calls or externally
// serialized; the collectors hold no state of their own and may be scraped
// concurrently.
type StatsSource interface {
	// GlobalStats returns the daemon-wide per-protocol operation totals.
	GlobalStats(ctx context.Context) (GlobalStats, error)

	// ExportStats returns the current export list cardinality.
	ExportStats(ctx context.Context) (ExportStats, error)

	// ListClients returns the addresses of currently known clients.
	ListClients(ctx context.Context) ([]string, error)

	// ClientIOStats returns one client's I/O counter record. A client that
	// disappeared since ListClients is reported via a non-"OK" Status, not
	// an error.
	ClientIOStats(ctx context.Context, addr string) (ClientIOStats, error)
}
