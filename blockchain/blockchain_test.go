package blockchain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starknetdev/sequencer-core/blockchain"
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

func sealOneBlock(t *testing.T, bc *blockchain.Blockchain, number uint64, txHash uint64, fromAddr, key0 uint64) *felt.Felt {
	t.Helper()
	bc.OpenPending(core.Header{Number: number})

	tx := core.Transaction{
		Type: core.TxnInvoke,
		Hash: new(felt.Felt).SetUint64(txHash),
	}
	receipt := core.Receipt{
		TransactionHash: tx.Hash,
		Status:          core.StatusSucceeded,
		Events: []core.Event{{
			FromAddress: new(felt.Felt).SetUint64(fromAddr),
			Keys:        []*felt.Felt{new(felt.Felt).SetUint64(key0)},
		}},
	}
	bc.AppendToPending(tx, receipt)

	hash := new(felt.Felt).SetUint64(1000 + number)
	bc.Seal(hash, &core.StateUpdate{})
	return hash
}

func TestSealUpdatesBothIndices(t *testing.T) {
	bc := blockchain.New()
	hash := sealOneBlock(t, bc, 0, 1, 0xA, 0x1)

	require.Equal(t, uint64(0), bc.CurrentBlockNumber())

	block, ok := bc.ByHash(hash)
	require.True(t, ok)
	require.Equal(t, uint64(0), block.Header.Number)

	byNum, ok := bc.ByNumber(0)
	require.True(t, ok)
	require.True(t, byNum.Header.Hash.Equal(hash))
}

func TestTxRefRewrittenAtomicallyOnSeal(t *testing.T) {
	bc := blockchain.New()
	bc.OpenPending(core.Header{Number: 0})

	tx := core.Transaction{Type: core.TxnInvoke, Hash: new(felt.Felt).SetUint64(7)}
	bc.AppendToPending(tx, core.Receipt{TransactionHash: tx.Hash, Status: core.StatusSucceeded})

	rec, ok := bc.TxByHash(tx.Hash)
	require.True(t, ok)
	require.True(t, rec.Ref.Pending)

	hash := new(felt.Felt).SetUint64(55)
	bc.Seal(hash, &core.StateUpdate{})

	rec, ok = bc.TxByHash(tx.Hash)
	require.True(t, ok)
	require.False(t, rec.Ref.Pending)
	require.Equal(t, uint64(0), rec.Ref.Number)
	require.True(t, rec.Ref.Hash.Equal(hash))
}

func TestEventsNoFilterConcatenatesInOrder(t *testing.T) {
	bc := blockchain.New()
	sealOneBlock(t, bc, 0, 1, 0xA, 0x1)
	sealOneBlock(t, bc, 1, 2, 0xB, 0x1)

	events, err := bc.Events(blockchain.EventFilter{FromBlock: 0, ToBlock: 1})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, uint64(0), events[0].BlockNumber)
	require.Equal(t, uint64(1), events[1].BlockNumber)
}

func TestEventsAddressAndKeyFilter(t *testing.T) {
	bc := blockchain.New()
	bc.OpenPending(core.Header{Number: 0})

	a := new(felt.Felt).SetUint64(0xA)
	b := new(felt.Felt).SetUint64(0xB)
	k1 := new(felt.Felt).SetUint64(0x1)
	k2 := new(felt.Felt).SetUint64(0x2)

	mk := func(hash uint64, from *felt.Felt, key *felt.Felt) (core.Transaction, core.Receipt) {
		tx := core.Transaction{Type: core.TxnInvoke, Hash: new(felt.Felt).SetUint64(hash)}
		r := core.Receipt{
			TransactionHash: tx.Hash,
			Status:          core.StatusSucceeded,
			Events:          []core.Event{{FromAddress: from, Keys: []*felt.Felt{key}}},
		}
		return tx, r
	}

	tx1, r1 := mk(1, a, k1)
	tx2, r2 := mk(2, b, k1)
	tx3, r3 := mk(3, a, k2)
	bc.AppendToPending(tx1, r1)
	bc.AppendToPending(tx2, r2)
	bc.AppendToPending(tx3, r3)
	bc.Seal(new(felt.Felt).SetUint64(900), &core.StateUpdate{})

	events, err := bc.Events(blockchain.EventFilter{
		FromBlock: 0,
		ToBlock:   0,
		Address:   a,
		Keys:      [][]*felt.Felt{{k1}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].TransactionHash.Equal(tx1.Hash))
}

func TestEventsFromAfterToIsEmpty(t *testing.T) {
	bc := blockchain.New()
	sealOneBlock(t, bc, 0, 1, 0xA, 0x1)

	events, err := bc.Events(blockchain.EventFilter{FromBlock: 1, ToBlock: 0})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestGetStateUpdate(t *testing.T) {
	bc := blockchain.New()
	bc.OpenPending(core.Header{Number: 0})
	bc.Seal(new(felt.Felt).SetUint64(1), &core.StateUpdate{NewRoot: new(felt.Felt).SetUint64(42)})

	update, ok := bc.GetStateUpdate(0)
	require.True(t, ok)
	require.True(t, update.NewRoot.Equal(new(felt.Felt).SetUint64(42)))

	_, ok = bc.GetStateUpdate(5)
	require.False(t, ok)
}
