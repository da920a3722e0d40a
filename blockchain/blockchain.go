// Package blockchain implements the Block & Transaction Index: an
// append-only log of sealed blocks keyed by both height and hash, the
// pending block buffer, and the transaction-hash index pointing into
// both, grounded on the `blocks`/`transactions` fields Katana's
// StarknetWrapper exposes to sequencer.rs.
package blockchain

import (
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

// BlockRef locates a transaction's containing block. A pending
// transaction's ref has Pending=true and Number/Hash unset.
type BlockRef struct {
	Pending bool
	Number  uint64
	Hash    *felt.Felt
}

// TxRecord is the transaction index's value type: the transaction, its
// receipt, and where it currently lives.
type TxRecord struct {
	Transaction core.Transaction
	Receipt     core.Receipt
	Ref         BlockRef
}

// Blockchain is the combined sealed-block index and pending buffer.
type Blockchain struct {
	byNumber     map[uint64]*core.Block
	byHash       map[felt.Felt]uint64
	txs          map[felt.Felt]*TxRecord
	events       map[uint64]*eventBloom
	stateUpdates map[uint64]*core.StateUpdate

	pending *core.Block
}

// New returns an empty index with no sealed blocks and no pending block.
// Callers must call OpenPending before admitting transactions.
func New() *Blockchain {
	return &Blockchain{
		byNumber:     make(map[uint64]*core.Block),
		byHash:       make(map[felt.Felt]uint64),
		txs:          make(map[felt.Felt]*TxRecord),
		events:       make(map[uint64]*eventBloom),
		stateUpdates: make(map[uint64]*core.StateUpdate),
	}
}

// CurrentBlockNumber returns the height of the latest sealed block, or 0
// if only pending/genesis exists, matching spec.md §8 invariant 1's
// "increases by exactly one per seal" framing (genesis is block 0).
func (bc *Blockchain) CurrentBlockNumber() uint64 {
	if len(bc.byNumber) == 0 {
		return 0
	}
	max := uint64(0)
	for n := range bc.byNumber {
		if n > max {
			max = n
		}
	}
	return max
}

// HasAny reports whether any block has been sealed yet.
func (bc *Blockchain) HasAny() bool {
	return len(bc.byNumber) > 0
}

// ByNumber returns the sealed block at n, if any.
func (bc *Blockchain) ByNumber(n uint64) (*core.Block, bool) {
	b, ok := bc.byNumber[n]
	return b, ok
}

// ByHash resolves a block hash to its sealed block.
func (bc *Blockchain) ByHash(hash *felt.Felt) (*core.Block, bool) {
	n, ok := bc.byHash[*hash]
	if !ok {
		return nil, false
	}
	return bc.ByNumber(n)
}

// NumberForHash resolves a block hash to its number only.
func (bc *Blockchain) NumberForHash(hash *felt.Felt) (uint64, bool) {
	n, ok := bc.byHash[*hash]
	return n, ok
}

// Latest returns the most recently sealed block.
func (bc *Blockchain) Latest() (*core.Block, bool) {
	if len(bc.byNumber) == 0 {
		return nil, false
	}
	return bc.ByNumber(bc.CurrentBlockNumber())
}

// Pending returns the current pending block buffer.
func (bc *Blockchain) Pending() *core.Block {
	return bc.pending
}

// OpenPending starts a fresh pending block on top of the current head,
// called once at start and after every seal (spec.md §3's lifecycle
// rule).
func (bc *Blockchain) OpenPending(header core.Header) {
	header.Hash = nil
	bc.pending = &core.Block{Header: header}
}

// AppendToPending appends a transaction and its receipt to the pending
// block and indexes it with a Pending ref. Ordering is arrival order;
// callers must serialize calls to this method (the sequencer facade's
// writer lock does so).
func (bc *Blockchain) AppendToPending(tx core.Transaction, receipt core.Receipt) {
	bc.pending.Transactions = append(bc.pending.Transactions, tx)
	bc.pending.Receipts = append(bc.pending.Receipts, receipt)
	bc.txs[*tx.Hash] = &TxRecord{
		Transaction: tx,
		Receipt:     receipt,
		Ref:         BlockRef{Pending: true},
	}
}

// Seal freezes the pending block under the given hash/number, rewrites
// all of its transactions' refs atomically with the block's insertion,
// indexes an event bloom filter for it, and records stateUpdate. It does
// NOT open the next pending block — callers (the Block Producer) do that
// immediately after, inside the same writer critical section, to keep
// seal-then-reopen indivisible from a reader's perspective.
func (bc *Blockchain) Seal(hash *felt.Felt, stateUpdate *core.StateUpdate) *core.Block {
	sealed := bc.pending
	sealed.Header.Hash = hash

	bc.byNumber[sealed.Header.Number] = sealed
	bc.byHash[*hash] = sealed.Header.Number

	for i := range sealed.Transactions {
		txHash := sealed.Transactions[i].Hash
		bc.txs[*txHash].Ref = BlockRef{
			Pending: false,
			Number:  sealed.Header.Number,
			Hash:    hash,
		}
	}

	bc.stateUpdates[sealed.Header.Number] = stateUpdate
	bc.events[sealed.Header.Number] = newEventBloom(sealed)

	bc.pending = nil
	return sealed
}

// TxByHash returns the indexed record for hash, covering both pending
// and sealed transactions.
func (bc *Blockchain) TxByHash(hash *felt.Felt) (*TxRecord, bool) {
	rec, ok := bc.txs[*hash]
	return rec, ok
}

// GetStateUpdate returns the diff between snapshot n and n-1.
func (bc *Blockchain) GetStateUpdate(n uint64) (*core.StateUpdate, bool) {
	u, ok := bc.stateUpdates[n]
	return u, ok
}
