package core

import "github.com/starknetdev/sequencer-core/felt"

// EntryPoint is a callable offset/selector pair within a legacy (Cairo 0)
// class, adapted from Juno's rpc.EntryPoint/core.EntryPoint split.
type EntryPoint struct {
	Selector *felt.Felt
	Offset   *felt.Felt
}

// SierraEntryPoint is the Cairo 1 equivalent, indexed into the compiled
// Sierra program rather than offset into raw bytecode.
type SierraEntryPoint struct {
	Selector *felt.Felt
	Index    uint64
}

// EntryPoints groups the three entry point kinds a class may expose.
type EntryPoints[T any] struct {
	Constructor []T
	External    []T
	L1Handler   []T
}

// LegacyClass is a pre-Sierra (Cairo 0) contract class: raw bytecode plus
// its entry point table. Grounded on Juno's rpc.Class adaptation of
// *core.Cairo0Class in rpc/chain.go.
type LegacyClass struct {
	Abi         string
	Program     string
	EntryPoints EntryPoints[EntryPoint]
}

// CompiledClass is the compiled form of a Sierra (Cairo 1) class. The
// executor bridge is responsible for deriving the compiled-class hash
// from it and checking it against the declare transaction's claim.
type CompiledClass struct {
	Abi             string
	EntryPoints     EntryPoints[SierraEntryPoint]
	SemanticVersion string
	Bytecode        []*felt.Felt
}

// SierraClass is the high-level, human-readable form of a Cairo 1 class.
// It is optional metadata attached to a declared CompiledClass and is
// never required for execution, only for class-read queries.
type SierraClass struct {
	Abi                  string
	SierraProgram        []*felt.Felt
	ContractClassVersion string
	EntryPoints          EntryPoints[SierraEntryPoint]
}

// ContractClass is the tagged union of the two class representations a
// declare transaction may install. Exactly one of Legacy/Compiled is set.
type ContractClass struct {
	Legacy   *LegacyClass
	Compiled *CompiledClass

	// Sierra is optional metadata attached only when Compiled != nil and
	// the declarer also supplied the human-readable Sierra body.
	Sierra *SierraClass
}

// IsLegacy reports whether this is a pre-Sierra class.
func (c *ContractClass) IsLegacy() bool {
	return c.Legacy != nil
}

// DeclaredClass pairs an installed class with the block it was declared
// at, mirroring Juno's core.DeclaredClass (core/state.go).
type DeclaredClass struct {
	At    uint64
	Class ContractClass
}
