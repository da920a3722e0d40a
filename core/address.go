package core

import "github.com/starknetdev/sequencer-core/felt"

// Address identifies a contract instance. The zero address never refers
// to a deployed contract.
type Address = felt.Felt

// ClassHash identifies a contract class's code.
type ClassHash = felt.Felt

// StorageKey identifies a storage slot within a contract.
type StorageKey = felt.Felt

// IsZero reports whether addr is the zero address, i.e. "no contract".
func IsZero(addr *felt.Felt) bool {
	return addr == nil || addr.IsZero()
}
