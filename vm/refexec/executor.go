// Package refexec is a minimal, deterministic reference implementation
// of vm.Bridge. It exists only so this repository is runnable and
// testable without a real blockifier-equivalent VM wired in — per
// spec.md §1 the actual executor is an external collaborator specified
// only by its interface. refexec implements just enough Starknet-ish
// semantics (nonce progression, a fixed fee, ERC-20-flavored storage
// writes, revert-but-still-charge) to drive the end-to-end scenarios of
// spec.md §8.
package refexec

import (
	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/core/crypto"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/state"
	"github.com/starknetdev/sequencer-core/vm"
)

// revertSentinel is the calldata[0] value refexec treats as "this
// invoke reverts" — a test fixture, not a Starknet convention.
var revertSentinel = new(felt.Felt).SetUint64(0xDEAD)

// fixedFee is the flat fee refexec charges every executed transaction,
// regardless of outcome.
var fixedFee = new(felt.Felt).SetUint64(10)

// Executor is the zero-value-usable reference executor.
type Executor struct{}

var _ vm.Bridge = Executor{}

// Execute runs tx against st, mutating it, per vm.Bridge's contract.
func (Executor) Execute(tx core.Transaction, st *state.Pending, ctx vm.BlockContext) (core.TransactionOutcome, error) {
	expectedNonce := st.NonceAt(tx.Sender)
	if tx.Nonce != expectedNonce {
		return core.TransactionOutcome{}, &vm.InvalidTransactionError{
			Reason: "nonce mismatch: expected " + feltOf(expectedNonce).String() + ", got " + feltOf(tx.Nonce).String(),
		}
	}

	diff := core.NewStateDiff()
	diff.Nonces[*tx.Sender] = tx.Nonce + 1

	outcome := core.TransactionOutcome{Status: core.StatusSucceeded, Fee: fixedFee}

	switch tx.Type {
	case core.TxnDeclare:
		if tx.ClassHash == nil {
			return core.TransactionOutcome{}, &vm.InvalidTransactionError{Reason: "declare missing class hash"}
		}
		// The compiled class body itself is installed by the caller
		// (sequencer.Core.AddDeclare) since only it has the ContractClass
		// payload; refexec only certifies the nonce/fee bookkeeping and
		// reports which hash was declared.
		outcome.NewlyDeclaredClassHash = tx.ClassHash

	case core.TxnDeployAccount:
		if tx.ContractAddress == nil || tx.ClassHash == nil {
			return core.TransactionOutcome{}, &vm.InvalidTransactionError{Reason: "deploy-account missing address or class hash"}
		}
		diff.DeployedContracts = append(diff.DeployedContracts, core.DeployedContract{
			Address:   tx.ContractAddress,
			ClassHash: tx.ClassHash,
		})

	case core.TxnInvoke, core.TxnL1Handler:
		if len(tx.Calldata) > 0 && tx.Calldata[0].Equal(revertSentinel) {
			outcome.Status = core.StatusReverted
			outcome.RevertReason = "refexec: revert sentinel in calldata[0]"
			break
		}
		if len(tx.Calldata) >= 2 {
			key, value := tx.Calldata[0], tx.Calldata[1]
			diff.StorageDiffs[*tx.Sender] = append(diff.StorageDiffs[*tx.Sender], core.StorageDiff{Key: key, Value: value})

			outcome.Events = append(outcome.Events, core.Event{
				FromAddress: tx.Sender,
				Keys:        []*felt.Felt{key},
				Data:        []*felt.Felt{value},
			})
		}

	default:
		return core.TransactionOutcome{}, &vm.InvalidTransactionError{Reason: "unsupported transaction type"}
	}

	if err := st.ApplyDiff(diff); err != nil {
		return core.TransactionOutcome{}, err
	}
	outcome.StateDiff = diff
	return outcome, nil
}

// EstimateFee reports the flat fee without committing any nonce/storage
// changes beyond what Execute would — it runs against the caller's
// forked state, so mutation here is harmless and discarded.
func (e Executor) EstimateFee(tx core.Transaction, st *state.Pending, ctx vm.BlockContext) (vm.FeeEstimate, error) {
	outcome, err := e.Execute(tx, st, ctx)
	if err != nil {
		return vm.FeeEstimate{}, err
	}
	return vm.FeeEstimate{
		GasConsumed: new(felt.Felt).SetUint64(1),
		GasPrice:    ctx.GasPrice,
		OverallFee:  outcome.Fee,
	}, nil
}

// Call performs a read-only entry point invocation: calldata[0] is
// interpreted as a storage key on the target contract, and its current
// value is returned as the sole retdata element.
func (Executor) Call(call vm.FunctionCall, st *state.Pending, ctx vm.BlockContext) ([]*felt.Felt, error) {
	if len(call.Calldata) == 0 {
		return nil, &vm.EntryPointExecutionError{Reason: "call requires calldata[0] as storage key"}
	}
	value := st.StorageAt(call.ContractAddress, call.Calldata[0])
	return []*felt.Felt{value}, nil
}

// BlockHash delegates to the reference block-hash function; a real
// bridge would instead compute whichever hash its targeted Starknet
// protocol version specifies.
func (Executor) BlockHash(number uint64, parentHash, stateRoot, txCommitment, receiptCommitment *felt.Felt) *felt.Felt {
	return crypto.BlockHash(number, parentHash, stateRoot, txCommitment, receiptCommitment)
}

func feltOf(v uint64) *felt.Felt {
	return new(felt.Felt).SetUint64(v)
}
