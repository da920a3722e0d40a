package felt_test

import (
	"testing"

	"github.com/starknetdev/sequencer-core/felt"
	"github.com/stretchr/testify/require"
)

func TestZeroIsZero(t *testing.T) {
	require.True(t, felt.Zero.IsZero())
	require.True(t, new(felt.Felt).IsZero())
}

func TestSetUint64Equal(t *testing.T) {
	a := new(felt.Felt).SetUint64(42)
	b := new(felt.Felt).SetUint64(42)
	c := new(felt.Felt).SetUint64(43)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestStringRendersHex(t *testing.T) {
	a := new(felt.Felt).SetUint64(0x2a)
	require.Equal(t, "0x2a", trimLeadingZeros(a.String()))
}

func trimLeadingZeros(hex string) string {
	i := 2
	for i < len(hex)-1 && hex[i] == '0' {
		i++
	}
	return "0x" + hex[i:]
}

func TestCmpOrdering(t *testing.T) {
	a := new(felt.Felt).SetUint64(1)
	b := new(felt.Felt).SetUint64(2)

	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))
}

func TestCloneIsIndependent(t *testing.T) {
	a := new(felt.Felt).SetUint64(7)
	b := a.Clone()
	a.SetUint64(8)
	require.False(t, a.Equal(b))
}
