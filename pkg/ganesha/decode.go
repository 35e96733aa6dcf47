package ganesha

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord reports a client I/O record shorter than the segment
// layout requires. This is a layout mismatch between this decoder's stride
// table and the daemon's output, and must never be mistaken for "zero ops".
var ErrMalformedRecord = errors.New("malformed client I/O record")

// Client I/O record layout.
//
// A record is a flat array of slots: a fixed leading region the projection
// ignores, followed by one segment per protocol version in Protocols order.
// Each segment starts with a presence flag; an active segment carries READ,
// WRITE and OTHER sub-records in the three slots after the flag. The
// NFSv4.1 and NFSv4.2 segments grew one extra reserved trailing slot with
// no documented meaning; it is skipped, never read.
//
// The layout has no self-describing length field, so the strides below are
// the format description. A change here silently relabels every downstream
// metric; keep it a single table.
const leadingSlots = 3

// segmentStride is the number of slots an active segment occupies, by
// protocol index: flag + READ + WRITE + OTHER, plus the reserved trailing
// slot for NFSv4.1/NFSv4.2. An inactive segment occupies only its flag.
var segmentStride = [ProtocolCount]int{4, 4, 5, 5}

// Sub-record positions within an active segment, relative to the flag.
const (
	readOffset  = 1
	writeOffset = 2
	otherOffset = 3
)

// DecodeClientIO decodes one client I/O record into an ordered sequence of
// observations.
//
// The decoder is a single left-to-right cursor pass with no backtracking
// and no retained state: decoding the same record twice yields identical
// results. For each active protocol it emits exactly 8 observations
// (READ and WRITE: total/errors/transferred, OTHER: total/errors); for an
// inactive protocol it emits nothing and advances past the flag only.
//
// A record too short for its own flags, or too short for an active
// segment's full stride, fails with ErrMalformedRecord.
func DecodeClientIO(stats []StatSlot) ([]IOStat, error) {
	out := make([]IOStat, 0, 8*ProtocolCount)

	c := leadingSlots
	for j, proto := range Protocols {
		if c >= len(stats) {
			return nil, fmt.Errorf("%w: missing %s presence flag at slot %d (record has %d slots)",
				ErrMalformedRecord, proto, c, len(stats))
		}
		if stats[c].Flag() == 0 {
			c++
			continue
		}
		if c+segmentStride[j] > len(stats) {
			return nil, fmt.Errorf("%w: %s segment needs %d slots at slot %d (record has %d slots)",
				ErrMalformedRecord, proto, segmentStride[j], c, len(stats))
		}

		var err error
		out, err = emitSub(out, proto, OpRead, stats[c+readOffset])
		if err != nil {
			return nil, err
		}
		out, err = emitSub(out, proto, OpWrite, stats[c+writeOffset])
		if err != nil {
			return nil, err
		}
		out, err = emitSub(out, proto, OpOther, stats[c+otherOffset])
		if err != nil {
			return nil, err
		}

		c += segmentStride[j]
	}

	return out, nil
}

// emitSub appends the observations of one sub-record slot. READ and WRITE
// carry total/errors/transferred; OTHER has no transferred counter.
func emitSub(out []IOStat, proto Protocol, op OpClass, slot StatSlot) ([]IOStat, error) {
	fields := []FieldKind{FieldTotal, FieldErrors, FieldTransferred}
	if op == OpOther {
		fields = fields[:2]
	}
	if len(slot) < len(fields) {
		return nil, fmt.Errorf("%w: %s %s sub-record has %d fields, need %d",
			ErrMalformedRecord, proto, op, len(slot), len(fields))
	}
	for i, f := range fields {
		out = append(out, IOStat{Proto: proto, Op: op, Field: f, Value: slot[i]})
	}
	return out, nil
}
