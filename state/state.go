// Package state implements the Sequencer Core's in-memory World State:
// a writable pending overlay plus an immutable history of snapshots,
// grounded on Katana's MemDb/pending_cached_state split in
// original_source/crates/katana/core/src/sequencer.rs and on the reader
// method names of Juno's core.State (core/state.go).
package state

import (
	"reflect"

	"github.com/Masterminds/semver/v3"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
)

// Reader is the read-only view any of {pending overlay, historical
// snapshot, forked copy} exposes. It never errors on class-hash-at,
// storage, or nonce reads — absence is zero, per spec.md §3's invariant
// that the store itself answers with zero and only the facade turns a
// zero class-hash-at into ContractNotFound.
type Reader interface {
	ClassHashAt(addr *felt.Felt) *felt.Felt
	StorageAt(addr, key *felt.Felt) *felt.Felt
	NonceAt(addr *felt.Felt) uint64
	Class(classHash *felt.Felt) (*core.ContractClass, error)
	SierraClass(classHash *felt.Felt) (*core.SierraClass, error)
}

// cached is the concrete, mutable world-state representation shared by
// the pending overlay, snapshots, and forked copies.
type cached struct {
	ClassHashAt map[felt.Felt]felt.Felt
	Storage     map[felt.Felt]map[felt.Felt]felt.Felt
	Nonces      map[felt.Felt]uint64
	Classes     map[felt.Felt]core.ContractClass
}

func newCached() *cached {
	return &cached{
		ClassHashAt: make(map[felt.Felt]felt.Felt),
		Storage:     make(map[felt.Felt]map[felt.Felt]felt.Felt),
		Nonces:      make(map[felt.Felt]uint64),
		Classes:     make(map[felt.Felt]core.ContractClass),
	}
}

func (c *cached) ClassHashAtOf(addr *felt.Felt) *felt.Felt {
	if v, ok := c.ClassHashAt[*addr]; ok {
		return &v
	}
	return &felt.Zero
}

func (c *cached) StorageAtOf(addr, key *felt.Felt) *felt.Felt {
	if slots, ok := c.Storage[*addr]; ok {
		if v, ok := slots[*key]; ok {
			return &v
		}
	}
	return &felt.Zero
}

func (c *cached) NonceAtOf(addr *felt.Felt) uint64 {
	return c.Nonces[*addr]
}

func (c *cached) ClassOf(classHash *felt.Felt) (*core.ContractClass, error) {
	if class, ok := c.Classes[*classHash]; ok {
		return &class, nil
	}
	return nil, errors.Wrapf(ErrClassNotInstalled, "class hash %s", classHash)
}

func (c *cached) SierraClassOf(classHash *felt.Felt) (*core.SierraClass, error) {
	class, err := c.ClassOf(classHash)
	if err != nil {
		return nil, err
	}
	if class.Sierra == nil {
		return nil, errors.Wrapf(ErrNotSierraBearing, "class hash %s", classHash)
	}
	return class.Sierra, nil
}

// Snapshot is an immutable view of the World State as of a sealed
// block's sealing moment. Once returned by State.SnapshotOf it must
// never be mutated; State.Fork is the only sanctioned way to get a
// writable copy derived from one.
type Snapshot struct {
	BlockNumber uint64
	data        *cached
}

func (s *Snapshot) ClassHashAt(addr *felt.Felt) *felt.Felt        { return s.data.ClassHashAtOf(addr) }
func (s *Snapshot) StorageAt(addr, key *felt.Felt) *felt.Felt     { return s.data.StorageAtOf(addr, key) }
func (s *Snapshot) NonceAt(addr *felt.Felt) uint64                { return s.data.NonceAtOf(addr) }
func (s *Snapshot) Class(h *felt.Felt) (*core.ContractClass, error) { return s.data.ClassOf(h) }
func (s *Snapshot) SierraClass(h *felt.Felt) (*core.SierraClass, error) {
	return s.data.SierraClassOf(h)
}

var _ Reader = (*Snapshot)(nil)

// Pending is the writable overlay the Pending-Block Engine executes
// transactions against.
type Pending struct {
	data *cached
}

func (p *Pending) ClassHashAt(addr *felt.Felt) *felt.Felt        { return p.data.ClassHashAtOf(addr) }
func (p *Pending) StorageAt(addr, key *felt.Felt) *felt.Felt     { return p.data.StorageAtOf(addr, key) }
func (p *Pending) NonceAt(addr *felt.Felt) uint64                { return p.data.NonceAtOf(addr) }
func (p *Pending) Class(h *felt.Felt) (*core.ContractClass, error) { return p.data.ClassOf(h) }
func (p *Pending) SierraClass(h *felt.Felt) (*core.SierraClass, error) {
	return p.data.SierraClassOf(h)
}

var _ Reader = (*Pending)(nil)

// SetStorageAt overwrites one storage slot. ApplyDiff uses it to merge
// an executed transaction's storage changes; outside that path it is
// called directly only by the privileged balance writes of genesis
// seeding and sequencer.Core.DripAndDeployAccount.
func (p *Pending) SetStorageAt(addr, key, value *felt.Felt) {
	slots, ok := p.data.Storage[*addr]
	if !ok {
		slots = make(map[felt.Felt]felt.Felt)
		p.data.Storage[*addr] = slots
	}
	slots[*key] = *value
}

// InstallClass installs a class under classHash. Re-installing the same
// hash with an identical body is a no-op; re-installing with a different
// body is an error, per spec.md §4.1.
func (p *Pending) InstallClass(classHash *felt.Felt, class core.ContractClass) error {
	if existing, ok := p.data.Classes[*classHash]; ok {
		if !sameClass(existing, class) {
			return errors.Wrapf(ErrClassAlreadyExists, "class hash %s", classHash)
		}
		return nil
	}
	p.data.Classes[*classHash] = class
	return nil
}

// RemoveClass deletes a class installed under classHash. It is a
// privileged write used only to roll back an install performed on
// behalf of a transaction that the bridge then rejected outright, so
// the rejected transaction leaves no observable trace (sequencer.Core's
// AddDeclare) — never reachable from an ordinary transaction's
// execution path.
func (p *Pending) RemoveClass(classHash *felt.Felt) {
	delete(p.data.Classes, *classHash)
}

// AttachSierra attaches the optional human-readable Sierra body to an
// already-installed compiled class, as Katana's add_declare_transaction
// does via `state.classes.entry(class_hash).and_modify(...)`.
func (p *Pending) AttachSierra(classHash *felt.Felt, sierra *core.SierraClass) error {
	class, ok := p.data.Classes[*classHash]
	if !ok {
		return errors.Wrapf(ErrClassNotInstalled, "class hash %s", classHash)
	}
	if _, err := semver.NewVersion(sierra.ContractClassVersion); err != nil {
		return errors.Wrapf(err, "invalid contract class version %q", sierra.ContractClassVersion)
	}
	class.Sierra = sierra
	p.data.Classes[*classHash] = class
	return nil
}

// ApplyDiff merges a StateDiff produced by the executor bridge into the
// pending overlay.
func (p *Pending) ApplyDiff(diff *core.StateDiff) error {
	if diff == nil {
		return nil
	}
	for addr, diffs := range diff.StorageDiffs {
		addr := addr
		for _, d := range diffs {
			p.SetStorageAt(&addr, d.Key, d.Value)
		}
	}
	for addr, nonce := range diff.Nonces {
		p.data.Nonces[addr] = nonce
	}
	for _, dc := range diff.DeployedContracts {
		p.data.ClassHashAt[*dc.Address] = *dc.ClassHash
	}
	for _, rc := range diff.ReplacedClasses {
		p.data.ClassHashAt[*rc.Address] = *rc.ClassHash
	}
	for _, nc := range diff.NewClasses {
		if err := p.InstallClass(nc.ClassHash, core.ContractClass{Compiled: &nc.CompiledClass}); err != nil {
			return err
		}
	}
	return nil
}

func sameClass(a, b core.ContractClass) bool {
	// Body equality is judged on the installed Legacy/Compiled body
	// only; Sierra metadata may be attached later and does not make two
	// installs conflict, matching Katana's "install now, attach sierra
	// after" sequencing in add_declare_transaction.
	return reflect.DeepEqual(a.Legacy, b.Legacy) && reflect.DeepEqual(a.Compiled, b.Compiled)
}

// State is the authoritative World State: the pending overlay plus the
// full history of sealed-block snapshots.
type State struct {
	pending   *Pending
	snapshots map[uint64]*cached
}

// New returns a State store with an empty pending overlay and no
// snapshots.
func New() *State {
	return &State{
		pending:   &Pending{data: newCached()},
		snapshots: make(map[uint64]*cached),
	}
}

// Pending returns the writable pending overlay.
func (s *State) Pending() *Pending {
	return s.pending
}

// SnapshotOf returns the immutable snapshot recorded for blockNumber, if
// any.
func (s *State) SnapshotOf(blockNumber uint64) (*Snapshot, bool) {
	data, ok := s.snapshots[blockNumber]
	if !ok {
		return nil, false
	}
	return &Snapshot{BlockNumber: blockNumber, data: data}, true
}

// Snapshot deep-copies the current pending overlay and records it as the
// snapshot for blockNumber. Structural sharing (persistent maps) is
// preferred per spec.md §9; this core uses jinzhu/copier's deep clone
// instead, which is acceptable for devnet-scale state per the same note.
func (s *State) Snapshot(blockNumber uint64) (*Snapshot, error) {
	clone := newCached()
	if err := copier.CopyWithOption(clone, s.pending.data, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "snapshot pending state")
	}
	s.snapshots[blockNumber] = clone
	return &Snapshot{BlockNumber: blockNumber, data: clone}, nil
}

// Fork returns a writable copy of reader's view, suitable for
// estimate_fee/call so the executor's invocation cannot contaminate the
// caller's committed or pending state (spec.md §4.3/§5).
func (s *State) Fork(reader Reader) (*Pending, error) {
	var src *cached
	switch v := reader.(type) {
	case *Snapshot:
		src = v.data
	case *Pending:
		src = v.data
	default:
		return nil, errors.New("unsupported reader type for fork")
	}

	clone := newCached()
	if err := copier.CopyWithOption(clone, src, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "fork state")
	}
	return &Pending{data: clone}, nil
}
