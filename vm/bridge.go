// Package vm defines the Executor Bridge: the narrow interface the
// Sequencer Core uses to wrap a Starknet VM, grounded on the
// AccountTransaction/StateReader boundary Katana's KatanaSequencer
// crosses in original_source/crates/katana/core/src/sequencer.rs. The
// bridge's internal types never leak into the sequencer facade's public
// surface (spec.md §9, "Trait over an asynchronous state machine").
package vm

import (
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/state"
)

// BlockContext carries the ambient information the executor needs to
// evaluate a transaction (spec.md §4.3/GLOSSARY).
type BlockContext struct {
	ChainID          string
	BlockNumber      uint64
	Timestamp        uint64
	SequencerAddress *felt.Felt
	GasPrice         *felt.Felt
	FeeTokenAddress  *felt.Felt
}

// FunctionCall is an external, non-state-changing entry point
// invocation, the payload of the facade's Call operation.
type FunctionCall struct {
	ContractAddress    *felt.Felt
	EntryPointSelector *felt.Felt
	Calldata           []*felt.Felt
}

// FeeEstimate is the result of a dry-run fee computation.
type FeeEstimate struct {
	GasConsumed *felt.Felt
	GasPrice    *felt.Felt
	OverallFee  *felt.Felt
}

//go:generate mockgen -destination=mocks/mock_bridge.go -package=mocks github.com/starknetdev/sequencer-core/vm Bridge

// Bridge is the Executor Bridge contract of spec.md §4.3. Execute may
// write into state; EstimateFee and Call must only ever be handed a
// forked (disposable) state by the caller, so they can read and
// internally mutate that copy without the bridge needing to know it's
// forked. BlockHash is the version-pinned block-hash function itself:
// spec.md §4.5 treats it as opaque and supplied alongside whichever
// executor the bridge wraps, so the core never computes it directly.
type Bridge interface {
	Execute(tx core.Transaction, st *state.Pending, ctx BlockContext) (core.TransactionOutcome, error)
	EstimateFee(tx core.Transaction, st *state.Pending, ctx BlockContext) (FeeEstimate, error)
	Call(call FunctionCall, st *state.Pending, ctx BlockContext) ([]*felt.Felt, error)
	BlockHash(number uint64, parentHash, stateRoot, txCommitment, receiptCommitment *felt.Felt) *felt.Felt
}

// InvalidTransactionError is returned by Execute/EstimateFee when the
// executor rejects the transaction outright (bad signature, nonce gap
// under strict mode, ...) — distinct from a successful-but-reverted
// execution, per spec.md §4.4's failure policy.
type InvalidTransactionError struct {
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return "invalid transaction: " + e.Reason
}

// EntryPointExecutionError is returned by Call when the VM fails inside
// the entry point itself (spec.md §7's EntryPointExecution kind).
type EntryPointExecutionError struct {
	Reason string
}

func (e *EntryPointExecutionError) Error() string {
	return "entry point execution failed: " + e.Reason
}
