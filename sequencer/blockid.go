package sequencer

import (
	"strconv"

	"github.com/starknetdev/sequencer-core/felt"
)

// BlockID is the symbolic block identifier the facade resolves,
// grounded on the `id.Latest`/`id.Hash`/`id.Pending`/`id.Number` shape
// Juno's rpc.BlockID exposes at stateByBlockID's call sites in
// rpc/chain.go.
type BlockID struct {
	Latest  bool
	Pending bool
	Number  uint64
	Hash    *felt.Felt
}

// LatestBlockID resolves to whatever block is currently sealed-latest.
func LatestBlockID() BlockID { return BlockID{Latest: true} }

// PendingBlockID always resolves to the pending buffer, never to a
// numeric block number (spec.md §8's boundary behavior).
func PendingBlockID() BlockID { return BlockID{Pending: true} }

// BlockIDByNumber resolves to exactly block n.
func BlockIDByNumber(n uint64) BlockID { return BlockID{Number: n} }

// BlockIDByHash resolves via the hash-to-number index.
func BlockIDByHash(h *felt.Felt) BlockID { return BlockID{Hash: h} }

// String renders a BlockID for error messages only.
func (id BlockID) String() string {
	switch {
	case id.Pending:
		return "pending"
	case id.Latest:
		return "latest"
	case id.Hash != nil:
		return id.Hash.String()
	default:
		return strconv.FormatUint(id.Number, 10)
	}
}
