package regiontype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		id   uint32
		want string
	}{
		{0, "None"},
		{KernelCode.ID(), "KernelCode"},
		{KernelMiscMainStack.ID(), "KernelMiscMainStack"},
		{Dram.ID() | AttrLinearMapped, "Dram|LinearMapped"},
		{DramHeapBase.ID(), "DramHeapBase"},
		{DramPoolPartition.ID(), "DramPoolPartition"},
		{DramApplicationPool.ID(), "DramApplicationPool"},
		{DramReservedBase.ID() | AttrShouldKernelMap | AttrUncached, "DramReservedBase|Uncached|ShouldKernelMap"},
		{VirtualDramSystemPool.ID(), "VirtualDramSystemPool"},
		{1 << 20, "0x00100000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.id))
		})
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("KernelMisc")
	require.NoError(t, err)
	assert.Equal(t, KernelMisc.ID(), id)

	id, err = Parse("dram | linearmapped")
	require.NoError(t, err)
	assert.Equal(t, Dram.ID()|AttrLinearMapped, id)

	id, err = Parse("0x19")
	require.NoError(t, err)
	assert.Equal(t, KernelCode.ID(), id)

	for _, bad := range []string{"", "NoSuchType", "LinearMapped", "Kernel|Dram", "Kernel|Bogus"} {
		_, err := Parse(bad)
		require.ErrorIs(t, err, ErrUnknownType, bad)
	}
}

func TestNameParseRoundTrip(t *testing.T) {
	for _, n := range Names() {
		v, ok := Lookup(n)
		require.True(t, ok, n)
		id, err := Parse(Name(v.ID()))
		require.NoError(t, err, n)
		assert.Equal(t, v.ID(), id, n)
	}
}
