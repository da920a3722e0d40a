package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starknetdev/sequencer-core/core"
	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/state"
)

func TestDefaultsAreZero(t *testing.T) {
	s := state.New()
	addr := new(felt.Felt).SetUint64(1)
	key := new(felt.Felt).SetUint64(2)

	require.True(t, s.Pending().ClassHashAt(addr).IsZero())
	require.True(t, s.Pending().StorageAt(addr, key).IsZero())
	require.Equal(t, uint64(0), s.Pending().NonceAt(addr))
}

func TestInstallClassIdempotent(t *testing.T) {
	s := state.New()
	hash := new(felt.Felt).SetUint64(99)
	class := core.ContractClass{Legacy: &core.LegacyClass{Program: "p"}}

	require.NoError(t, s.Pending().InstallClass(hash, class))
	require.NoError(t, s.Pending().InstallClass(hash, class))

	different := core.ContractClass{Compiled: &core.CompiledClass{}}
	require.Error(t, s.Pending().InstallClass(hash, different))
}

func TestSnapshotIsolation(t *testing.T) {
	s := state.New()
	addr := new(felt.Felt).SetUint64(1)
	key := new(felt.Felt).SetUint64(2)
	v1 := new(felt.Felt).SetUint64(10)
	v2 := new(felt.Felt).SetUint64(20)

	s.Pending().SetStorageAt(addr, key, v1)
	snap0, err := s.Snapshot(0)
	require.NoError(t, err)

	s.Pending().SetStorageAt(addr, key, v2)

	require.True(t, snap0.StorageAt(addr, key).Equal(v1))
	require.True(t, s.Pending().StorageAt(addr, key).Equal(v2))
}

func TestForkDoesNotMutateSource(t *testing.T) {
	s := state.New()
	addr := new(felt.Felt).SetUint64(1)
	key := new(felt.Felt).SetUint64(2)
	v1 := new(felt.Felt).SetUint64(10)
	v2 := new(felt.Felt).SetUint64(20)

	s.Pending().SetStorageAt(addr, key, v1)

	fork, err := s.Fork(s.Pending())
	require.NoError(t, err)
	fork.SetStorageAt(addr, key, v2)

	require.True(t, s.Pending().StorageAt(addr, key).Equal(v1))
	require.True(t, fork.StorageAt(addr, key).Equal(v2))
}

func TestSnapshotOfMissing(t *testing.T) {
	s := state.New()
	_, ok := s.SnapshotOf(5)
	require.False(t, ok)
}

func TestAttachSierraRejectsUnparseableVersion(t *testing.T) {
	s := state.New()
	hash := new(felt.Felt).SetUint64(1)
	class := core.ContractClass{Compiled: &core.CompiledClass{}}
	require.NoError(t, s.Pending().InstallClass(hash, class))

	bad := &core.SierraClass{ContractClassVersion: "not-a-version"}
	require.Error(t, s.Pending().AttachSierra(hash, bad))

	good := &core.SierraClass{ContractClassVersion: "1.2.0"}
	require.NoError(t, s.Pending().AttachSierra(hash, good))

	attached, err := s.Pending().SierraClass(hash)
	require.NoError(t, err)
	require.Equal(t, "1.2.0", attached.ContractClassVersion)
}
