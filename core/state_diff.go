package core

import "github.com/starknetdev/sequencer-core/felt"

// StorageDiff is a single (key -> new value) change within one
// contract's storage, adapted from Juno's core.StorageDiff
// (core/state.go) with the old-value logging field dropped — this core
// keeps snapshots instead of a reversible change log.
type StorageDiff struct {
	Key   *felt.Felt
	Value *felt.Felt
}

// ReplacedClass records a contract whose class-hash-at changed without a
// fresh deployment (not reachable via the transaction kinds spec.md
// defines, but kept for parity with Juno's StateDiff so ApplyDiff has a
// single, uniform shape to merge).
type ReplacedClass struct {
	Address   *felt.Felt
	ClassHash *felt.Felt
}

// DeployedContract records a brand-new address -> class-hash binding.
type DeployedContract struct {
	Address   *felt.Felt
	ClassHash *felt.Felt
}

// NewClass pairs a class hash with the compiled class body installed
// for it, the unit produced by a Declare transaction's execution.
type NewClass struct {
	ClassHash     *felt.Felt
	CompiledClass CompiledClass
}

// StateDiff is the set of storage, nonce, class-hash-at and
// class-installation changes produced by executing a transaction (or
// accumulated across a whole pending block). Grounded on Juno's
// core.StateDiff, stripped of the trie-commitment bookkeeping
// (DeclaredV0Classes/DeclaredV1Classes become a single NewClasses slice
// since this core has no classes trie to update separately).
type StateDiff struct {
	StorageDiffs      map[felt.Felt][]StorageDiff
	Nonces            map[felt.Felt]uint64
	DeployedContracts []DeployedContract
	ReplacedClasses   []ReplacedClass
	NewClasses        []NewClass
}

// NewStateDiff returns an empty, ready-to-merge-into diff.
func NewStateDiff() *StateDiff {
	return &StateDiff{
		StorageDiffs: make(map[felt.Felt][]StorageDiff),
		Nonces:       make(map[felt.Felt]uint64),
	}
}

// Merge folds other into d in place, later writes winning on conflicting
// keys — the same "apply in arrival order" rule spec.md §4.4 requires
// for transactions within one pending block.
func (d *StateDiff) Merge(other *StateDiff) {
	if other == nil {
		return
	}
	for addr, diffs := range other.StorageDiffs {
		d.StorageDiffs[addr] = append(d.StorageDiffs[addr], diffs...)
	}
	for addr, nonce := range other.Nonces {
		d.Nonces[addr] = nonce
	}
	d.DeployedContracts = append(d.DeployedContracts, other.DeployedContracts...)
	d.ReplacedClasses = append(d.ReplacedClasses, other.ReplacedClasses...)
	d.NewClasses = append(d.NewClasses, other.NewClasses...)
}

// StateUpdate is the diff between two consecutive sealed snapshots, as
// returned by the state_update query.
type StateUpdate struct {
	BlockHash *felt.Felt
	OldRoot   *felt.Felt
	NewRoot   *felt.Felt
	StateDiff *StateDiff
}
