package sequencer

import (
	"github.com/starknetdev/sequencer-core/blockchain"
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/state"
	"github.com/starknetdev/sequencer-core/vm"
)

// resolveReaderLocked maps a BlockID to the state.Reader it denotes plus
// the BlockContext an executor would see at that point, per spec.md
// §4.6's resolution rules. Caller must hold at least c.mu.RLock.
func (c *Core) resolveReaderLocked(id BlockID) (state.Reader, vm.BlockContext, *Error) {
	switch {
	case id.Pending:
		header := c.bc.Pending().Header
		return c.st.Pending(), c.blockContextFromHeader(header), nil

	case id.Latest:
		latest, ok := c.bc.Latest()
		if !ok {
			return nil, vm.BlockContext{}, newErr(KindBlockNotFound, id.String(), nil)
		}
		return c.readerForSealed(latest)

	case id.Hash != nil:
		block, ok := c.bc.ByHash(id.Hash)
		if !ok {
			return nil, vm.BlockContext{}, newErr(KindBlockNotFound, id.String(), nil)
		}
		return c.readerForSealed(block)

	default:
		block, ok := c.bc.ByNumber(id.Number)
		if !ok {
			return nil, vm.BlockContext{}, newErr(KindBlockNotFound, id.String(), nil)
		}
		return c.readerForSealed(block)
	}
}

func (c *Core) readerForSealed(block *core.Block) (state.Reader, vm.BlockContext, *Error) {
	snap, ok := c.st.SnapshotOf(block.Header.Number)
	if !ok {
		return nil, vm.BlockContext{}, newErr(KindStateNotFound, block.Header.Hash.String(), nil)
	}
	return snap, c.blockContextFromHeader(block.Header), nil
}

func (c *Core) blockContextFromHeader(h core.Header) vm.BlockContext {
	return vm.BlockContext{
		ChainID:          c.starknetCfg.ChainID,
		BlockNumber:      h.Number,
		Timestamp:        h.Timestamp,
		SequencerAddress: c.starknetCfg.SequencerAddress,
		GasPrice:         c.starknetCfg.GasPrice,
		FeeTokenAddress:  c.starknetCfg.FeeTokenAddress,
	}
}

func (c *Core) resolveBlockLocked(id BlockID) (*core.Block, *Error) {
	switch {
	case id.Pending:
		return c.bc.Pending(), nil
	case id.Latest:
		b, ok := c.bc.Latest()
		if !ok {
			return nil, newErr(KindBlockNotFound, id.String(), nil)
		}
		return b, nil
	case id.Hash != nil:
		b, ok := c.bc.ByHash(id.Hash)
		if !ok {
			return nil, newErr(KindBlockNotFound, id.String(), nil)
		}
		return b, nil
	default:
		b, ok := c.bc.ByNumber(id.Number)
		if !ok {
			return nil, newErr(KindBlockNotFound, id.String(), nil)
		}
		return b, nil
	}
}

// ChainID returns the configured chain identifier.
func (c *Core) ChainID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.starknetCfg.ChainID
}

// BlockNumber returns the current sealed-chain height.
func (c *Core) BlockNumber() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bc.CurrentBlockNumber()
}

// BlockHashAndNumber returns the latest sealed block's hash and number.
func (c *Core) BlockHashAndNumber() (*felt.Felt, uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	latest, ok := c.bc.Latest()
	if !ok {
		return nil, 0, newErr(KindBlockNotFound, "latest", nil)
	}
	return latest.Header.Hash, latest.Header.Number, nil
}

// Block resolves id to the block it denotes, sealed or pending.
func (c *Core) Block(id BlockID) (*core.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	block, err := c.resolveBlockLocked(id)
	if err != nil {
		return nil, err
	}
	return block, nil
}

// contractExistsLocked reports whether addr has an installed class under
// reader, per spec.md §4.6's "ClassHashAt == 0 means ContractNotFound"
// rule.
func contractExistsLocked(reader state.Reader, addr *felt.Felt) bool {
	return !reader.ClassHashAt(addr).IsZero()
}

// StorageAt reads one storage slot as of blockID, returning
// ContractNotFound if addr has no installed class there.
func (c *Core) StorageAt(addr, key *felt.Felt, id BlockID) (*felt.Felt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, _, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return nil, rErr
	}
	if !contractExistsLocked(reader, addr) {
		return nil, newErr(KindContractNotFound, addr.String(), nil)
	}
	return reader.StorageAt(addr, key), nil
}

// NonceAt reads addr's nonce as of blockID.
func (c *Core) NonceAt(addr *felt.Felt, id BlockID) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, _, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return 0, rErr
	}
	if !contractExistsLocked(reader, addr) {
		return 0, newErr(KindContractNotFound, addr.String(), nil)
	}
	return reader.NonceAt(addr), nil
}

// ClassHashAt reads addr's installed class hash as of blockID.
func (c *Core) ClassHashAt(addr *felt.Felt, id BlockID) (*felt.Felt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, _, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return nil, rErr
	}
	hash := reader.ClassHashAt(addr)
	if hash.IsZero() {
		return nil, newErr(KindContractNotFound, addr.String(), nil)
	}
	return hash, nil
}

// Class returns the installed class body for classHash as of blockID.
func (c *Core) Class(classHash *felt.Felt, id BlockID) (*core.ContractClass, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, _, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return nil, rErr
	}
	class, err := reader.Class(classHash)
	if err != nil {
		return nil, newErr(KindState, classHash.String(), err)
	}
	return class, nil
}

// StateUpdate returns the recorded state diff for a sealed block number.
// There is no state update for the pending block (spec.md §4.6).
func (c *Core) StateUpdate(id BlockID) (*core.StateUpdate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id.Pending {
		return nil, newErr(KindStateUpdateNotFound, id.String(), nil)
	}
	block, rErr := c.resolveBlockLocked(id)
	if rErr != nil {
		return nil, rErr
	}
	update, ok := c.bc.GetStateUpdate(block.Header.Number)
	if !ok {
		return nil, newErr(KindStateUpdateNotFound, id.String(), nil)
	}
	return update, nil
}

// Transaction returns the indexed transaction for hash.
func (c *Core) Transaction(hash *felt.Felt) (*core.Transaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.bc.TxByHash(hash)
	if !ok {
		return nil, newErr(KindTxnNotFound, hash.String(), nil)
	}
	return &rec.Transaction, nil
}

// TransactionReceipt returns the indexed receipt for hash.
func (c *Core) TransactionReceipt(hash *felt.Felt) (*core.Receipt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.bc.TxByHash(hash)
	if !ok {
		return nil, newErr(KindTxnNotFound, hash.String(), nil)
	}
	return &rec.Receipt, nil
}

// TransactionStatus reports whether hash is pending, sealed, or unknown.
func (c *Core) TransactionStatus(hash *felt.Felt) (blockchain.BlockRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.bc.TxByHash(hash)
	if !ok {
		return blockchain.BlockRef{}, newErr(KindTxnNotFound, hash.String(), nil)
	}
	return rec.Ref, nil
}

// Events runs an event query against the sealed-block range, per
// blockchain.EventFilter's bloom-prefiltered scan.
func (c *Core) Events(filter blockchain.EventFilter) ([]core.EmittedEvent, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	events, err := c.bc.Events(filter)
	if err != nil {
		return nil, newErr(KindBlockNotFound, "", err)
	}
	return events, nil
}

