package sequencer

import (
	"github.com/go-playground/validator/v10"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

var validate = validator.New()

// GenesisAllocation seeds one contract at startup: an installed class
// (under ClassHash), a balance (applied as an ERC20_balances storage
// write under the fee token), and the address it lives at.
type GenesisAllocation struct {
	Address   *felt.Felt         `validate:"required"`
	ClassHash *felt.Felt         `validate:"required"`
	Class     core.ContractClass `validate:"required"`
	Balance   uint64
}

// StarknetConfig is the inward StarknetConfig of spec.md §6.
type StarknetConfig struct {
	ChainID          string       `validate:"required"`
	SequencerAddress *felt.Felt   `validate:"required"`
	FeeTokenAddress  *felt.Felt   `validate:"required"`
	GasPrice         *felt.Felt   `validate:"required"`
	InitialTimestamp uint64
	GenesisAllocations []GenesisAllocation `validate:"dive"`
}

// Validate applies go-playground/validator struct tags, matching the
// teacher's declared validator dependency.
func (c StarknetConfig) Validate() error {
	return validate.Struct(c)
}

// SequencerConfig is the inward SequencerConfig of spec.md §6.
type SequencerConfig struct {
	// BlockTime selects interval mode (non-nil, seconds, must be > 0)
	// versus instant mode (nil).
	BlockTime *uint64 `validate:"omitempty,gt=0"`

	// AllowDevnetAffordances gates DripAndDeployAccount (spec.md §9).
	// Only cmd/sequencer sets this true by default.
	AllowDevnetAffordances bool
}

// Validate applies go-playground/validator struct tags.
func (c SequencerConfig) Validate() error {
	return validate.Struct(c)
}

// IsInstantMode reports whether sealing happens after every transaction
// rather than on a fixed interval.
func (c SequencerConfig) IsInstantMode() bool {
	return c.BlockTime == nil
}
