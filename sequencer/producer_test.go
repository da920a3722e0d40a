package sequencer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/sequencer"
	"github.com/starknetdev/sequencer-core/vm/refexec"
)

func TestIntervalModeSealsOnTick(t *testing.T) {
	blockTime := uint64(1)
	starknetCfg := sequencer.StarknetConfig{
		ChainID:          "SN_TEST",
		SequencerAddress: new(felt.Felt).SetUint64(1),
		FeeTokenAddress:  new(felt.Felt).SetUint64(2),
		GasPrice:         new(felt.Felt).SetUint64(1),
	}
	cfg := sequencer.SequencerConfig{BlockTime: &blockTime}

	c, err := sequencer.New(starknetCfg, cfg, refexec.Executor{}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.Equal(t, uint64(0), c.BlockNumber())

	require.Eventually(t, func() bool {
		return c.BlockNumber() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStopCancelsIntervalLoop(t *testing.T) {
	blockTime := uint64(3600)
	starknetCfg := sequencer.StarknetConfig{
		ChainID:          "SN_TEST",
		SequencerAddress: new(felt.Felt).SetUint64(1),
		FeeTokenAddress:  new(felt.Felt).SetUint64(2),
		GasPrice:         new(felt.Felt).SetUint64(1),
	}
	cfg := sequencer.SequencerConfig{BlockTime: &blockTime}

	c, err := sequencer.New(starknetCfg, cfg, refexec.Executor{}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return promptly")
	}
}
