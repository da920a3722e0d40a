package blockchain

import (
	"github.com/bits-and-blooms/bloom/v3"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

// eventBloom lets Events() skip a whole sealed block without scanning
// its transactions when neither the requested address nor any requested
// first-position key could possibly appear in it. It is a pure
// short-circuit: every (from_address, key0) pair actually emitted in the
// block is added, so a miss here is always a true miss (no false
// negatives); a hit still goes through the exact filter in Events().
type eventBloom struct {
	filter *bloom.BloomFilter
}

func newEventBloom(b *core.Block) *eventBloom {
	// Sized for a devnet-scale block; false-positive rate only affects
	// how often the exact filter runs needlessly, never correctness.
	f := bloom.NewWithEstimates(256, 0.01)
	for i := range b.Transactions {
		tx := b.Transactions[i]
		if tx.Type != core.TxnInvoke && tx.Type != core.TxnL1Handler {
			continue
		}
		for _, ev := range b.Receipts[i].Events {
			f.Add(ev.FromAddress.Marshal())
			if len(ev.Keys) > 0 {
				f.Add(ev.Keys[0].Marshal())
			}
		}
	}
	return &eventBloom{filter: f}
}

func (eb *eventBloom) mayContain(address *felt.Felt, keys [][]*felt.Felt) bool {
	if eb == nil {
		return true
	}
	if address != nil && eb.filter.Test(address.Marshal()) {
		return true
	}
	if address == nil {
		return true
	}
	for _, group := range keys {
		for _, k := range group {
			if eb.filter.Test(k.Marshal()) {
				return true
			}
		}
	}
	return len(keys) == 0 && address == nil
}

// EventFilter mirrors the events() query surface of spec.md §6.
type EventFilter struct {
	FromBlock uint64
	ToBlock   uint64
	Address   *felt.Felt
	Keys      [][]*felt.Felt

	// ContinuationToken and ChunkSize are accepted but ignored: Events
	// always returns every matching event in the range.
	ContinuationToken string
	ChunkSize         uint64
}

// Events iterates sealed blocks [from, to] inclusive (pending is never
// included), considers only Invoke and L1Handler transactions, and
// returns matching events in block order, then transaction order, then
// event order — a direct transliteration of KatanaSequencer::events in
// original_source/crates/katana/core/src/sequencer.rs.
func (bc *Blockchain) Events(filter EventFilter) ([]core.EmittedEvent, error) {
	if filter.FromBlock > filter.ToBlock {
		return nil, nil
	}

	var out []core.EmittedEvent
	for n := filter.FromBlock; n <= filter.ToBlock; n++ {
		block, ok := bc.byNumber[n]
		if !ok {
			return nil, &BlockNotFoundError{Number: n}
		}

		if !bc.events[n].mayContain(filter.Address, filter.Keys) {
			continue
		}

		for i := range block.Transactions {
			tx := block.Transactions[i]
			if tx.Type != core.TxnInvoke && tx.Type != core.TxnL1Handler {
				continue
			}

			for _, ev := range block.Receipts[i].Events {
				if !matchesFilter(ev, filter) {
					continue
				}
				out = append(out, core.EmittedEvent{
					Event:           ev,
					BlockHash:       block.Header.Hash,
					BlockNumber:     block.Header.Number,
					TransactionHash: tx.Hash,
				})
			}
		}
	}

	return out, nil
}

func matchesFilter(ev core.Event, filter EventFilter) bool {
	if filter.Address != nil && !ev.FromAddress.Equal(filter.Address) {
		return false
	}

	if filter.Keys == nil {
		return true
	}

	limit := len(filter.Keys)
	if len(ev.Keys) < limit {
		limit = len(ev.Keys)
	}
	for i := 0; i < limit; i++ {
		if len(filter.Keys[i]) == 0 {
			continue // empty group matches any value at this position
		}
		matched := false
		for _, candidate := range filter.Keys[i] {
			if ev.Keys[i].Equal(candidate) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// BlockNotFoundError is returned when an events query range references
// a block number with no sealed block.
type BlockNotFoundError struct {
	Number uint64
}

func (e *BlockNotFoundError) Error() string {
	return "block not found"
}
