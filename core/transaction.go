package core

import "github.com/starknetdev/sequencer-core/felt"

// TransactionType tags the Transaction union, mirroring starknet_api's
// Transaction enum that Katana's sequencer.rs switches on.
type TransactionType uint8

const (
	TxnInvoke TransactionType = iota
	TxnDeclare
	TxnDeployAccount
	TxnL1Handler
)

func (t TransactionType) String() string {
	switch t {
	case TxnInvoke:
		return "INVOKE"
	case TxnDeclare:
		return "DECLARE"
	case TxnDeployAccount:
		return "DEPLOY_ACCOUNT"
	case TxnL1Handler:
		return "L1_HANDLER"
	default:
		return "UNKNOWN"
	}
}

// Transaction is the tagged union over the four transaction kinds the
// core admits. Each carries its own caller-computed hash; the core never
// recomputes transaction hashes.
type Transaction struct {
	Type   TransactionType
	Hash   *felt.Felt
	Sender *felt.Felt
	Nonce  uint64
	Calldata []*felt.Felt

	// Declare-only fields.
	ClassHash         *felt.Felt
	CompiledClassHash *felt.Felt

	// DeployAccount-only: the address the constructor deploys to.
	ContractAddress *felt.Felt

	// L1Handler-only.
	EntryPointSelector *felt.Felt
}

// ExecutionStatus is the outcome of a successfully admitted (not
// rejected) transaction.
type ExecutionStatus uint8

const (
	StatusSucceeded ExecutionStatus = iota
	StatusReverted
)

func (s ExecutionStatus) String() string {
	if s == StatusReverted {
		return "REVERTED"
	}
	return "SUCCEEDED"
}

// Event is a single emitted log entry, scoped to the contract that
// emitted it.
type Event struct {
	FromAddress *felt.Felt
	Keys        []*felt.Felt
	Data        []*felt.Felt
}

// EmittedEvent decorates an Event with the location it was found at,
// produced only by the events query (spec.md §6).
type EmittedEvent struct {
	Event
	BlockHash       *felt.Felt
	BlockNumber     uint64
	TransactionHash *felt.Felt
}

// TransactionOutcome is what the executor bridge reports back for an
// executed transaction.
type TransactionOutcome struct {
	Status       ExecutionStatus
	RevertReason string
	Fee          *felt.Felt
	Events       []Event
	StateDiff    *StateDiff

	// NewlyDeclaredClassHash/Class are set only for a successfully
	// admitted Declare transaction.
	NewlyDeclaredClassHash *felt.Felt
	NewlyDeclaredClass     *ContractClass
}

// Receipt is the durable record of a transaction's execution, stored
// alongside the sealed (or pending) block.
type Receipt struct {
	TransactionHash *felt.Felt
	Status          ExecutionStatus
	RevertReason    string
	Fee             *felt.Felt
	Events          []Event
}
