// Package ganesha provides the data model for NFS-Ganesha runtime
// statistics and the decoder that turns the daemon's positionally-encoded
// per-client counter arrays into named observations.
//
// The package deliberately knows nothing about Prometheus: it produces
// plain (protocol, operation, field, value) tuples that pkg/collector
// projects into metrics.
package ganesha

// Protocol identifies one NFS protocol version tracked by Ganesha.
//
// The numeric values match the order of the protocol segments inside a
// client I/O record (see DecodeClientIO) and must not be reordered.
type Protocol int

const (
	ProtoNFSv3 Protocol = iota
	ProtoNFSv40
	ProtoNFSv41
	ProtoNFSv42

	// ProtocolCount is the number of protocol segments in a client record.
	ProtocolCount = 4
)

// Protocols lists all protocol versions in record order.
var Protocols = [ProtocolCount]Protocol{ProtoNFSv3, ProtoNFSv40, ProtoNFSv41, ProtoNFSv42}

// String returns the display name ("NFSv3", "NFSv4.0", ...).
func (p Protocol) String() string {
	switch p {
	case ProtoNFSv3:
		return "NFSv3"
	case ProtoNFSv40:
		return "NFSv4.0"
	case ProtoNFSv41:
		return "NFSv4.1"
	case ProtoNFSv42:
		return "NFSv4.2"
	default:
		return "unknown"
	}
}

// Tag returns the metric-name form of the protocol: lower-cased with the
// version dot stripped ("nfsv3", "nfsv40", "nfsv41", "nfsv42").
func (p Protocol) Tag() string {
	switch p {
	case ProtoNFSv3:
		return "nfsv3"
	case ProtoNFSv40:
		return "nfsv40"
	case ProtoNFSv41:
		return "nfsv41"
	case ProtoNFSv42:
		return "nfsv42"
	default:
		return "unknown"
	}
}

// OpClass identifies the operation class of a decoded counter.
type OpClass int

const (
	OpRead OpClass = iota
	OpWrite
	OpOther
)

func (o OpClass) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpOther:
		return "other"
	default:
		return "unknown"
	}
}

// FieldKind identifies which counter of a sub-record a value came from.
type FieldKind int

const (
	FieldTotal FieldKind = iota
	FieldErrors
	FieldTransferred
)

func (f FieldKind) String() string {
	switch f {
	case FieldTotal:
		return "total"
	case FieldErrors:
		return "errors"
	case FieldTransferred:
		return "transferred"
	default:
		return "unknown"
	}
}

// GlobalStats is a snapshot of Ganesha's aggregate operation counts per
// protocol version.
//
// When Success is false the daemon reported a failure and Totals carries no
// information; consumers must project zeros, never fabricated values.
type GlobalStats struct {
	Success bool
	Status  string
	Totals  [ProtocolCount]uint64
}

// ExportStats carries the cardinality of the current export list. It is
// fetched fresh on every scrape and never cached.
type ExportStats struct {
	Count uint32
}

// StatSlot is one positional slot of a client I/O record.
//
// Ganesha packs two kinds of values into the same array: scalar presence
// flags (single-element slots) and counter sub-records (two or three
// elements). An empty slot is a zero flag, mirroring the daemon's own
// falsy-value convention.
type StatSlot []uint64

// Flag reads the slot as a protocol presence flag.
func (s StatSlot) Flag() uint64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// ClientIOStats is one client's I/O counter record as returned by the
// daemon. Status != "OK" means the record should be skipped for this
// scrape; it is not a transport failure.
//
// The record is an immutable snapshot: decoded once, then discarded.
type ClientIOStats struct {
	Status string
	Stats  []StatSlot
}

// IOStat is one decoded observation from a client I/O record.
type IOStat struct {
	Proto Protocol
	Op    OpClass
	Field FieldKind
	Value uint64
}
