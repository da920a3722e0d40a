// Package sequencer implements the Pending-Block Engine, the Block
// Producer, and the Sequencer Facade of spec.md §4.4–4.6 as a single
// Core type guarded by one sync.RWMutex over the combined
// {State Store, Index, Pending Block} aggregate (spec.md §5), the Go
// equivalent of Katana's `Arc<RwLock<StarknetWrapper>>` in
// original_source/crates/katana/core/src/sequencer.rs.
package sequencer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/starknetdev/sequencer-core/blockchain"
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/core/crypto"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/state"
	"github.com/starknetdev/sequencer-core/vm"
)

// Core is the concrete Sequencer Facade: the sole in-process owner of
// the State Store, the Block & Transaction Index, and the pending
// block, per spec.md §9 ("the sequencer object owns all state; there is
// no process-wide singleton").
type Core struct {
	mu sync.RWMutex

	starknetCfg StarknetConfig
	cfg         SequencerConfig
	bridge      vm.Bridge
	log         *zap.Logger
	metrics     *metrics

	st *state.State
	bc *blockchain.Blockchain

	pendingDiff *core.StateDiff

	cancel  context.CancelFunc
	wg      conc.WaitGroup
	started bool
}

// New constructs a Core. The caller must call Start before admitting
// transactions or issuing reads.
func New(starknetCfg StarknetConfig, cfg SequencerConfig, bridge vm.Bridge, log *zap.Logger, registerer prometheus.Registerer) (*Core, error) {
	if err := starknetCfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid starknet config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sequencer config")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Core{
		starknetCfg: starknetCfg,
		cfg:         cfg,
		bridge:      bridge,
		log:         log,
		metrics:     newMetrics(registerer),
		st:          state.New(),
		bc:          blockchain.New(),
	}, nil
}

// Start generates the genesis block (which becomes snapshot #0), opens
// the first pending block, and — in interval mode — spawns the
// cancellable background sealing loop. Matches
// KatanaSequencer::start's generate_genesis_block -> generate_pending_block
// (-> spawned sleep/seal loop) sequencing exactly, including the
// documented off-by-one: the first interval tick seals the
// genesis-*successor* block, not genesis itself (spec.md §9,
// DESIGN.md's Open Question 2).
func (c *Core) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return errors.New("sequencer already started")
	}
	c.started = true

	c.sealGenesisLocked()
	c.openPendingLocked()

	if !c.cfg.IsInstantMode() {
		runCtx, cancel := context.WithCancel(ctx)
		c.cancel = cancel
		blockTime := time.Duration(*c.cfg.BlockTime) * time.Second
		c.wg.Go(func() { c.intervalLoop(runCtx, blockTime) })
	}

	c.log.Info("sequencer started",
		zap.String("chain_id", c.starknetCfg.ChainID),
		zap.Bool("instant_mode", c.cfg.IsInstantMode()))
	return nil
}

// Stop cancels the interval-mode sealing loop, if any, and waits for it
// to exit. Cancellation can only land at the loop's sleep suspension
// point (spec.md §5) — sealing itself is a single critical section
// under c.mu and is never interrupted mid-way.
func (c *Core) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *Core) intervalLoop(ctx context.Context, blockTime time.Duration) {
	for {
		timer := time.NewTimer(blockTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		c.mu.Lock()
		c.sealLocked()
		c.openPendingLocked()
		c.mu.Unlock()
	}
}

// sealGenesisLocked opens a header-only pending block at number 0,
// applies genesis allocations, and immediately seals it — genesis is
// never visible as "pending" to a reader.
func (c *Core) sealGenesisLocked() {
	header := core.Header{
		Number:           0,
		ParentHash:       &felt.Zero,
		Timestamp:        c.starknetCfg.InitialTimestamp,
		SequencerAddress: c.starknetCfg.SequencerAddress,
		GasPrice:         c.starknetCfg.GasPrice,
	}
	c.bc.OpenPending(header)
	c.pendingDiff = core.NewStateDiff()

	pending := c.st.Pending()
	for _, alloc := range c.starknetCfg.GenesisAllocations {
		if err := pending.InstallClass(alloc.ClassHash, alloc.Class); err != nil {
			c.log.Warn("genesis class install failed", zap.Error(err))
			continue
		}
		diff := core.NewStateDiff()
		diff.DeployedContracts = append(diff.DeployedContracts, core.DeployedContract{
			Address:   alloc.Address,
			ClassHash: alloc.ClassHash,
		})
		_ = pending.ApplyDiff(diff)

		if alloc.Balance > 0 {
			balanceKey := crypto.GetStorageVarAddress("ERC20_balances", alloc.Address)
			balance := new(felt.Felt).SetUint64(alloc.Balance)
			pending.SetStorageAt(c.starknetCfg.FeeTokenAddress, balanceKey, balance)
		}
	}

	c.sealLocked()
}

// openPendingLocked opens a fresh pending block on top of the current
// head. Timestamp is frozen at creation (spec.md §3).
func (c *Core) openPendingLocked() {
	parentHash := &felt.Zero
	if latest, ok := c.bc.Latest(); ok {
		parentHash = latest.Header.Hash
	}

	nextNumber := uint64(0)
	if c.bc.HasAny() {
		nextNumber = c.bc.CurrentBlockNumber() + 1
	}

	header := core.Header{
		Number:           nextNumber,
		ParentHash:       parentHash,
		Timestamp:        uint64(time.Now().Unix()),
		SequencerAddress: c.starknetCfg.SequencerAddress,
		GasPrice:         c.starknetCfg.GasPrice,
	}

	c.bc.OpenPending(header)
	c.pendingDiff = core.NewStateDiff()
}

// sealLocked freezes the pending block, computes its hash, records the
// state update, snapshots the post-state, and advances the head — all
// inside the caller's already-held writer lock, so a seal is atomic
// with respect to readers (spec.md §4.5/§9).
func (c *Core) sealLocked() {
	pending := c.bc.Pending()
	number := pending.Header.Number

	txCommitment := &felt.Zero
	for i := range pending.Transactions {
		txCommitment = crypto.Pedersen(txCommitment, pending.Transactions[i].Hash)
	}
	receiptCommitment := &felt.Zero
	for i := range pending.Receipts {
		receiptCommitment = crypto.Pedersen(receiptCommitment, pending.Receipts[i].Fee)
	}

	hash := c.bridge.BlockHash(number, pending.Header.ParentHash, &felt.Zero, txCommitment, receiptCommitment)

	oldRoot := &felt.Zero
	if number > 0 {
		if prevSnap, ok := c.st.SnapshotOf(number - 1); ok {
			oldRoot = stateRootOf(prevSnap)
		}
	}

	update := &core.StateUpdate{
		BlockHash: hash,
		OldRoot:   oldRoot,
		NewRoot:   &felt.Zero,
		StateDiff: c.pendingDiff,
	}

	sealed := c.bc.Seal(hash, update)

	snap, err := c.st.Snapshot(number)
	if err != nil {
		c.log.Error("failed to snapshot state after seal", zap.Error(err), zap.Uint64("number", number))
	} else {
		update.NewRoot = stateRootOf(snap)
	}

	c.metrics.blocksSealed.Inc()
	c.metrics.pendingTxnsGauge.Set(0)
	c.log.Info("sealed block",
		zap.Uint64("number", sealed.Header.Number),
		zap.String("hash", hash.String()),
		zap.Int("transactions", len(sealed.Transactions)))
}

// stateRootOf is a placeholder state-root accessor: this core has no
// Merkle commitment scheme (spec.md §4.5 treats the block hash as an
// opaque, externally supplied function), so the root is always the
// zero felt. It is a named function rather than an inlined literal so
// a future wired-in commitment scheme has a single call site to replace.
func stateRootOf(*state.Snapshot) *felt.Felt {
	return &felt.Zero
}
