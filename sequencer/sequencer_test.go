package sequencer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starknetdev/sequencer-core/blockchain"
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/core/crypto"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/sequencer"
	"github.com/starknetdev/sequencer-core/vm/refexec"
)

var feeTokenAddress = new(felt.Felt).SetUint64(2)

func newTestCore(t *testing.T, blockTimeSeconds uint64) *sequencer.Core {
	t.Helper()

	var blockTime *uint64
	if blockTimeSeconds > 0 {
		blockTime = &blockTimeSeconds
	}

	starknetCfg := sequencer.StarknetConfig{
		ChainID:          "SN_TEST",
		SequencerAddress: new(felt.Felt).SetUint64(1),
		FeeTokenAddress:  feeTokenAddress,
		GasPrice:         new(felt.Felt).SetUint64(1),
		// Deploy the fee token at genesis so its storage is readable.
		GenesisAllocations: []sequencer.GenesisAllocation{{
			Address:   feeTokenAddress,
			ClassHash: new(felt.Felt).SetUint64(0xFEE),
			Class:     core.ContractClass{Legacy: &core.LegacyClass{}},
		}},
	}
	cfg := sequencer.SequencerConfig{
		BlockTime:              blockTime,
		AllowDevnetAffordances: true,
	}

	c, err := sequencer.New(starknetCfg, cfg, refexec.Executor{}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)
	return c
}

func TestGenesisSealsBlockZero(t *testing.T) {
	c := newTestCore(t, 0)
	require.Equal(t, uint64(0), c.BlockNumber())

	hash, number, err := c.BlockHashAndNumber()
	require.NoError(t, err)
	require.Equal(t, uint64(0), number)
	require.NotNil(t, hash)
}

func deployAccountTx(hash, addr, classHash *felt.Felt) core.Transaction {
	return core.Transaction{
		Type:            core.TxnDeployAccount,
		Hash:            hash,
		Sender:          addr,
		Nonce:           0,
		ClassHash:       classHash,
		ContractAddress: addr,
	}
}

func TestDripAndDeployAccountFundsAndInstallsClass(t *testing.T) {
	c := newTestCore(t, 0)

	addr := new(felt.Felt).SetUint64(0xA11CE)
	classHash := new(felt.Felt).SetUint64(0xC1A55)
	tx := deployAccountTx(new(felt.Felt).SetUint64(1), addr, classHash)

	deployed, receipt, err := c.DripAndDeployAccount(tx, 1_000)
	require.NoError(t, err)
	require.True(t, deployed.Equal(addr))
	require.Equal(t, core.StatusSucceeded, receipt.Status)

	_, err = c.TransactionReceipt(tx.Hash)
	require.NoError(t, err)

	got, err := c.ClassHashAt(addr, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.True(t, got.Equal(classHash))

	nonce, err := c.NonceAt(addr, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.Equal(t, uint64(1), nonce)

	balanceKey := crypto.GetStorageVarAddress("ERC20_balances", addr)
	balance, err := c.StorageAt(feeTokenAddress, balanceKey, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.True(t, balance.Equal(new(felt.Felt).SetUint64(1_000)))

	// drip sets, it does not add: a second drip re-using the same
	// (already-deployed) address overwrites rather than accumulates.
	second := deployAccountTx(new(felt.Felt).SetUint64(2), addr, classHash)
	second.Nonce = 1
	_, _, err = c.DripAndDeployAccount(second, 50)
	require.NoError(t, err)
	balance, err = c.StorageAt(feeTokenAddress, balanceKey, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.True(t, balance.Equal(new(felt.Felt).SetUint64(50)))
}

func TestDeclareThenInvokeAdvancesNonceAndWritesStorage(t *testing.T) {
	c := newTestCore(t, 0)

	sender := new(felt.Felt).SetUint64(0x5E4DE6)
	classHash := new(felt.Felt).SetUint64(0xC1A55)
	_, _, err := c.DripAndDeployAccount(deployAccountTx(new(felt.Felt).SetUint64(100), sender, classHash), 0)
	require.NoError(t, err)

	declareTx := core.Transaction{
		Type:      core.TxnDeclare,
		Hash:      new(felt.Felt).SetUint64(1),
		Sender:    sender,
		Nonce:     1,
		ClassHash: classHash,
	}
	class := core.ContractClass{Compiled: &core.CompiledClass{}}
	_, err = c.AddDeclare(declareTx, class, nil)
	require.NoError(t, err)

	nonce, err := c.NonceAt(sender, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.Equal(t, uint64(2), nonce)

	key := new(felt.Felt).SetUint64(7)
	value := new(felt.Felt).SetUint64(42)
	invokeTx := core.Transaction{
		Type:     core.TxnInvoke,
		Hash:     new(felt.Felt).SetUint64(2),
		Sender:   sender,
		Nonce:    2,
		Calldata: []*felt.Felt{key, value},
	}
	receipt, err := c.AddInvoke(invokeTx)
	require.NoError(t, err)
	require.Equal(t, core.StatusSucceeded, receipt.Status)

	stored, err := c.StorageAt(sender, key, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.True(t, stored.Equal(value))
}

func TestRevertedInvokeStillAdvancesNonceAndRejectsReplay(t *testing.T) {
	c := newTestCore(t, 0)

	sender := new(felt.Felt).SetUint64(0xF00D)
	classHash := new(felt.Felt).SetUint64(0xC1A55)
	_, _, err := c.DripAndDeployAccount(deployAccountTx(new(felt.Felt).SetUint64(100), sender, classHash), 0)
	require.NoError(t, err)

	revertSentinel := new(felt.Felt).SetUint64(0xDEAD)
	tx := core.Transaction{
		Type:     core.TxnInvoke,
		Hash:     new(felt.Felt).SetUint64(9),
		Sender:   sender,
		Nonce:    1,
		Calldata: []*felt.Felt{revertSentinel},
	}
	receipt, err := c.AddInvoke(tx)
	require.NoError(t, err)
	require.Equal(t, core.StatusReverted, receipt.Status)

	nonce, err := c.NonceAt(sender, sequencer.PendingBlockID())
	require.NoError(t, err)
	require.Equal(t, uint64(2), nonce)

	replay := tx
	replay.Hash = new(felt.Felt).SetUint64(10)
	_, err = c.AddInvoke(replay)
	require.Error(t, err)
	var seqErr *sequencer.Error
	require.ErrorAs(t, err, &seqErr)
	require.Equal(t, sequencer.KindTransactionExecution, seqErr.Kind)
}

func TestSnapshotIsolationAcrossSeals(t *testing.T) {
	c := newTestCore(t, 0)

	sender := new(felt.Felt).SetUint64(0xB0B)
	classHash := new(felt.Felt).SetUint64(0xC1A55)
	_, _, err := c.DripAndDeployAccount(deployAccountTx(new(felt.Felt).SetUint64(100), sender, classHash), 0)
	require.NoError(t, err)

	key := new(felt.Felt).SetUint64(1)
	firstValue := new(felt.Felt).SetUint64(100)
	tx1 := core.Transaction{
		Type:     core.TxnInvoke,
		Hash:     new(felt.Felt).SetUint64(1),
		Sender:   sender,
		Nonce:    1,
		Calldata: []*felt.Felt{key, firstValue},
	}
	_, err = c.AddInvoke(tx1)
	require.NoError(t, err)
	firstBlock := c.BlockNumber()

	secondValue := new(felt.Felt).SetUint64(200)
	tx2 := core.Transaction{
		Type:     core.TxnInvoke,
		Hash:     new(felt.Felt).SetUint64(2),
		Sender:   sender,
		Nonce:    2,
		Calldata: []*felt.Felt{key, secondValue},
	}
	_, err = c.AddInvoke(tx2)
	require.NoError(t, err)
	secondBlock := c.BlockNumber()
	require.Greater(t, secondBlock, firstBlock)

	valueAtFirst, err := c.StorageAt(sender, key, sequencer.BlockIDByNumber(firstBlock))
	require.NoError(t, err)
	require.True(t, valueAtFirst.Equal(firstValue))

	valueAtSecond, err := c.StorageAt(sender, key, sequencer.BlockIDByNumber(secondBlock))
	require.NoError(t, err)
	require.True(t, valueAtSecond.Equal(secondValue))
}

func TestEventsAddressFilterAcrossSealedBlocks(t *testing.T) {
	c := newTestCore(t, 0)

	sender := new(felt.Felt).SetUint64(0xE1)
	classHash := new(felt.Felt).SetUint64(0xC1A55)
	_, _, err := c.DripAndDeployAccount(deployAccountTx(new(felt.Felt).SetUint64(100), sender, classHash), 0)
	require.NoError(t, err)

	key := new(felt.Felt).SetUint64(1)
	value := new(felt.Felt).SetUint64(9)
	tx := core.Transaction{
		Type:     core.TxnInvoke,
		Hash:     new(felt.Felt).SetUint64(1),
		Sender:   sender,
		Nonce:    1,
		Calldata: []*felt.Felt{key, value},
	}
	_, err = c.AddInvoke(tx)
	require.NoError(t, err)

	latest := c.BlockNumber()
	events, err := c.Events(blockchain.EventFilter{
		FromBlock: 0,
		ToBlock:   latest,
		Address:   sender,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].FromAddress.Equal(sender))
}
