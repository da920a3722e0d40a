package core

import "github.com/starknetdev/sequencer-core/felt"

// Header carries the metadata committed into a block's hash. Gas price
// and sequencer address are fixed by the surrounding BlockContext.
type Header struct {
	Number           uint64
	Hash             *felt.Felt // nil for the pending block
	ParentHash       *felt.Felt
	Timestamp        uint64
	SequencerAddress *felt.Felt
	GasPrice         *felt.Felt
	StateRoot        *felt.Felt
}

// IsPending reports whether this header belongs to the pending (not yet
// sealed) block.
func (h *Header) IsPending() bool {
	return h.Hash == nil
}

// Block is a sealed or pending set of transactions and their receipts
// under a single header.
type Block struct {
	Header       Header
	Transactions []Transaction
	Receipts     []Receipt
}

// TxIndex returns the position of the transaction with the given hash
// within this block, or -1 if absent.
func (b *Block) TxIndex(hash *felt.Felt) int {
	for i := range b.Transactions {
		if b.Transactions[i].Hash.Equal(hash) {
			return i
		}
	}
	return -1
}
