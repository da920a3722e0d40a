package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

func TestHeaderIsPending(t *testing.T) {
	pending := core.Header{}
	require.True(t, pending.IsPending())

	sealed := core.Header{Hash: new(felt.Felt).SetUint64(1)}
	require.False(t, sealed.IsPending())
}

func TestBlockTxIndex(t *testing.T) {
	a := new(felt.Felt).SetUint64(1)
	b := new(felt.Felt).SetUint64(2)
	block := core.Block{
		Transactions: []core.Transaction{{Hash: a}, {Hash: b}},
	}

	require.Equal(t, 0, block.TxIndex(a))
	require.Equal(t, 1, block.TxIndex(b))
	require.Equal(t, -1, block.TxIndex(new(felt.Felt).SetUint64(3)))
}

func TestIsZero(t *testing.T) {
	require.True(t, core.IsZero(&felt.Zero))
	require.False(t, core.IsZero(new(felt.Felt).SetUint64(1)))
}

func TestStateDiffMergeAppliesLaterWritesLast(t *testing.T) {
	addr := new(felt.Felt).SetUint64(1)
	key := new(felt.Felt).SetUint64(2)

	d1 := core.NewStateDiff()
	d1.Nonces[*addr] = 1
	d1.StorageDiffs[*addr] = []core.StorageDiff{{Key: key, Value: new(felt.Felt).SetUint64(10)}}

	d2 := core.NewStateDiff()
	d2.Nonces[*addr] = 2
	d2.StorageDiffs[*addr] = []core.StorageDiff{{Key: key, Value: new(felt.Felt).SetUint64(20)}}

	d1.Merge(d2)

	require.Equal(t, uint64(2), d1.Nonces[*addr])
	require.Len(t, d1.StorageDiffs[*addr], 2)
	require.True(t, d1.StorageDiffs[*addr][1].Value.Equal(new(felt.Felt).SetUint64(20)))
}
