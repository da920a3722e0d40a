package sequencer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/core/crypto"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/vm"
)

// blockContextLocked builds the ambient BlockContext the executor bridge
// needs, scoped to the current pending block. Caller must hold c.mu.
func (c *Core) blockContextLocked() vm.BlockContext {
	pending := c.bc.Pending()
	return vm.BlockContext{
		ChainID:          c.starknetCfg.ChainID,
		BlockNumber:      pending.Header.Number,
		Timestamp:        pending.Header.Timestamp,
		SequencerAddress: c.starknetCfg.SequencerAddress,
		GasPrice:         c.starknetCfg.GasPrice,
		FeeTokenAddress:  c.starknetCfg.FeeTokenAddress,
	}
}

// admitLocked runs tx through the executor bridge against the live
// pending overlay, appends it and its receipt to the index regardless of
// outcome (reverted transactions still charge and advance the nonce,
// spec.md §4.4 invariant 4), merges the resulting diff, and — in instant
// mode, when autoSeal is set — reseals immediately. Any error from the
// bridge or from applying its diff prevents the transaction from being
// appended at all; an InvalidTransactionError is reported as
// TransactionExecution, any other error as State. Callers that must do
// more writes within the same block as tx
// (drip_and_deploy_account's direct balance set) pass autoSeal=false and
// reseal themselves afterward.
func (c *Core) admitLocked(tx core.Transaction, autoSeal bool) (core.Receipt, error) {
	outcome, err := c.bridge.Execute(tx, c.st.Pending(), c.blockContextLocked())
	if err != nil {
		var invalid *vm.InvalidTransactionError
		if errors.As(err, &invalid) {
			c.metrics.txnsAdmitted.WithLabelValues("rejected").Inc()
			return core.Receipt{}, newErr(KindTransactionExecution, tx.Hash.String(), err)
		}
		return core.Receipt{}, newErr(KindState, tx.Hash.String(), err)
	}

	receipt := core.Receipt{
		TransactionHash: tx.Hash,
		Status:          outcome.Status,
		RevertReason:    outcome.RevertReason,
		Fee:             outcome.Fee,
		Events:          outcome.Events,
	}

	if err := c.st.Pending().ApplyDiff(outcome.StateDiff); err != nil {
		return core.Receipt{}, newErr(KindState, tx.Hash.String(), err)
	}
	c.pendingDiff.Merge(outcome.StateDiff)
	c.bc.AppendToPending(tx, receipt)

	if outcome.NewlyDeclaredClassHash != nil && outcome.NewlyDeclaredClass != nil {
		_ = c.st.Pending().InstallClass(outcome.NewlyDeclaredClassHash, *outcome.NewlyDeclaredClass)
	}

	status := "succeeded"
	if outcome.Status == core.StatusReverted {
		status = "reverted"
	}
	c.metrics.txnsAdmitted.WithLabelValues(status).Inc()
	c.metrics.pendingTxnsGauge.Set(float64(len(c.bc.Pending().Transactions)))

	if autoSeal && c.cfg.IsInstantMode() {
		c.sealLocked()
		c.openPendingLocked()
	}

	return receipt, nil
}

// AddInvoke admits an INVOKE transaction.
func (c *Core) AddInvoke(tx core.Transaction) (core.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admitLocked(tx, true)
}

// AddDeclare admits a DECLARE transaction, installing class before
// execution so the bridge can resolve it mid-execution, and attaching
// the optional Sierra body afterward (Katana's add_declare_transaction
// installs, executes, then attaches sierra only on success). A class
// freshly installed for this attempt is rolled back if admission rejects
// the transaction outright, so a rejected Declare leaves no observable
// trace in pending state (spec.md §4.4's "not appended" invariant).
func (c *Core) AddDeclare(tx core.Transaction, class core.ContractClass, sierra *core.SierraClass) (core.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, lookupErr := c.st.Pending().Class(tx.ClassHash)
	alreadyInstalled := lookupErr == nil
	if err := c.st.Pending().InstallClass(tx.ClassHash, class); err != nil {
		return core.Receipt{}, newErr(KindState, tx.ClassHash.String(), err)
	}

	receipt, err := c.admitLocked(tx, true)
	if err != nil {
		if !alreadyInstalled {
			c.st.Pending().RemoveClass(tx.ClassHash)
		}
		return receipt, err
	}

	if sierra != nil {
		if err := c.st.Pending().AttachSierra(tx.ClassHash, sierra); err != nil {
			c.log.Warn("failed to attach sierra body", zap.Error(err))
		}
	}
	return receipt, nil
}

// AddDeployAccount admits a DEPLOY_ACCOUNT transaction and returns the
// address it was deployed to.
func (c *Core) AddDeployAccount(tx core.Transaction) (*felt.Felt, core.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addDeployAccountLocked(tx, true)
}

// addDeployAccountLocked admits tx and reports the address it deployed
// to. Caller must hold c.mu.
func (c *Core) addDeployAccountLocked(tx core.Transaction, autoSeal bool) (*felt.Felt, core.Receipt, error) {
	receipt, err := c.admitLocked(tx, autoSeal)
	if err != nil {
		return nil, receipt, err
	}
	return tx.ContractAddress, receipt, nil
}

// DripAndDeployAccount is the devnet-only affordance of spec.md §4.6: it
// executes tx (a DEPLOY_ACCOUNT transaction) through the ordinary
// admission pipeline — so it produces a real transaction hash, advances
// the deployed address's nonce, and leaves a receipt TransactionReceipt
// and TransactionStatus can find — and then, in the same critical
// section (before any instant-mode reseal), directly sets the fee
// token's ERC20_balances slot for the new address to balance, bypassing
// the executor's normal transfer path entirely. Gated by
// SequencerConfig.AllowDevnetAffordances (spec.md §9).
func (c *Core) DripAndDeployAccount(tx core.Transaction, balance uint64) (*felt.Felt, core.Receipt, error) {
	if !c.cfg.AllowDevnetAffordances {
		return nil, core.Receipt{}, ErrDevnetAffordanceDisabled
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	addr, receipt, err := c.addDeployAccountLocked(tx, false)
	if err != nil {
		return nil, receipt, err
	}

	balanceKey := crypto.GetStorageVarAddress("ERC20_balances", addr)
	value := new(felt.Felt).SetUint64(balance)
	pending := c.st.Pending()
	pending.SetStorageAt(c.starknetCfg.FeeTokenAddress, balanceKey, value)

	diff := core.NewStateDiff()
	diff.StorageDiffs[*c.starknetCfg.FeeTokenAddress] = []core.StorageDiff{{Key: balanceKey, Value: value}}
	c.pendingDiff.Merge(diff)

	if c.cfg.IsInstantMode() {
		c.sealLocked()
		c.openPendingLocked()
	}

	return addr, receipt, nil
}

// EstimateFee dry-runs tx against a disposable fork of blockID's state,
// never touching live pending or sealed state (spec.md §4.3).
func (c *Core) EstimateFee(tx core.Transaction, id BlockID) (vm.FeeEstimate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, blockCtx, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return vm.FeeEstimate{}, rErr
	}

	forked, err := c.st.Fork(reader)
	if err != nil {
		return vm.FeeEstimate{}, newErr(KindState, id.String(), err)
	}

	estimate, err := c.bridge.EstimateFee(tx, forked, blockCtx)
	if err != nil {
		var invalid *vm.InvalidTransactionError
		if errors.As(err, &invalid) {
			return vm.FeeEstimate{}, newErr(KindTransactionExecution, id.String(), err)
		}
		return vm.FeeEstimate{}, newErr(KindState, id.String(), err)
	}
	return estimate, nil
}

// Call dry-runs an external entry point invocation against a disposable
// fork of blockID's state.
func (c *Core) Call(call vm.FunctionCall, id BlockID) ([]*felt.Felt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reader, blockCtx, rErr := c.resolveReaderLocked(id)
	if rErr != nil {
		return nil, rErr
	}

	forked, err := c.st.Fork(reader)
	if err != nil {
		return nil, newErr(KindState, id.String(), err)
	}

	result, err := c.bridge.Call(call, forked, blockCtx)
	if err != nil {
		var epErr *vm.EntryPointExecutionError
		if errors.As(err, &epErr) {
			return nil, newErr(KindEntryPointExecution, id.String(), err)
		}
		return nil, newErr(KindState, id.String(), err)
	}
	return result, nil
}
