package ganesha

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGlobalStats(t *testing.T) {
	body := []any{
		true,
		"OK",
		[]any{uint64(1700000000), uint64(123456)}, // timestamp, not a total
		uint64(5), uint64(0), uint64(12), uint64(0),
		uint64(99), // MNT ops, beyond the four NFS protocols
	}

	st, err := normalizeGlobalStats(body)
	require.NoError(t, err)
	assert.True(t, st.Success)
	assert.Equal(t, "OK", st.Status)
	assert.Equal(t, [ProtocolCount]uint64{5, 0, 12, 0}, st.Totals)
}

func TestNormalizeGlobalStats_Failure(t *testing.T) {
	st, err := normalizeGlobalStats([]any{false, "No NFS activity"})
	require.NoError(t, err)
	assert.False(t, st.Success)
	assert.Equal(t, "No NFS activity", st.Status)
	assert.Equal(t, [ProtocolCount]uint64{}, st.Totals)
}

func TestNormalizeGlobalStats_VariantWrapped(t *testing.T) {
	body := []any{
		dbus.MakeVariant(true),
		dbus.MakeVariant("OK"),
		dbus.MakeVariant(uint64(7)),
		uint32(8), // narrower integer types widen
		uint64(9),
		uint64(10),
	}

	st, err := normalizeGlobalStats(body)
	require.NoError(t, err)
	assert.Equal(t, [ProtocolCount]uint64{7, 8, 9, 10}, st.Totals)
}

func TestNormalizeGlobalStats_NoStatus(t *testing.T) {
	_, err := normalizeGlobalStats([]any{true, uint64(1)})
	require.Error(t, err)
}

func TestNormalizeClientList_StructEntries(t *testing.T) {
	// ganesha 4 shape: each entry is a struct with the address first.
	body := []any{
		[]any{uint64(1700000000), uint64(0)},
		[][]any{
			{"10.0.0.1", true, uint64(3)},
			{"10.0.0.2", false, uint64(0)},
		},
	}

	addrs, err := normalizeClientList(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, addrs)
}

func TestNormalizeClientList_VariantEntries(t *testing.T) {
	// ganesha 3 shape: entries arrive variant-wrapped with the address
	// nested one level down.
	body := []any{
		[][]any{
			{dbus.MakeVariant([]any{"192.168.1.9", uint64(1)})},
		},
	}

	addrs, err := normalizeClientList(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.1.9"}, addrs)
}

func TestNormalizeClientList_Empty(t *testing.T) {
	body := []any{[][]any{}}

	addrs, err := normalizeClientList(body)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestNormalizeClientList_NoList(t *testing.T) {
	_, err := normalizeClientList([]any{"no clients"})
	require.Error(t, err)
}

func TestNormalizeClientIOStats(t *testing.T) {
	body := []any{
		true,
		"OK",
		// Everything after the status string is the positional record:
		// scalars become flag slots, arrays become sub-record slots.
		uint64(1700000000), uint64(0), uint64(4),
		uint64(0),
		uint64(1),
		[]uint64{100, 2, 4096},
		[]uint64{50, 0, 2048},
		[]uint64{10, 1},
		uint64(0),
		uint64(0),
	}

	st := normalizeClientIOStats(body)
	assert.Equal(t, "OK", st.Status)
	require.Len(t, st.Stats, 10)
	assert.Equal(t, StatSlot{0}, st.Stats[3])
	assert.Equal(t, StatSlot{1}, st.Stats[4])
	assert.Equal(t, StatSlot{100, 2, 4096}, st.Stats[5])

	decoded, err := DecodeClientIO(st.Stats)
	require.NoError(t, err)
	assert.Len(t, decoded, 8)
}

func TestNormalizeClientIOStats_NotFound(t *testing.T) {
	st := normalizeClientIOStats([]any{false, "Client IP address not found"})
	assert.Equal(t, "Client IP address not found", st.Status)
	assert.Empty(t, st.Stats)
}

func TestStatSlotFlag(t *testing.T) {
	assert.Equal(t, uint64(0), StatSlot{}.Flag())
	assert.Equal(t, uint64(0), StatSlot{0}.Flag())
	assert.Equal(t, uint64(3), StatSlot{3, 9}.Flag())
}
