// Command sequencer runs a standalone, in-memory Starknet devnet
// sequencer. It has no RPC wire server of its own — it is meant to be
// embedded or driven in-process by a collaborator; main exists to prove
// the wiring and to give operators a way to smoke-test a build.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"github.com/starknetdev/sequencer-core/felt"
	"github.com/starknetdev/sequencer-core/sequencer"
	"github.com/starknetdev/sequencer-core/vm/refexec"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sequencer",
		Short: "Run an in-memory Starknet devnet sequencer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	var flags *pflag.FlagSet = cmd.Flags()
	flags.String("chain-id", "SN_DEVNET", "chain identifier reported to the executor bridge")
	flags.Uint64("block-time", 0, "seconds between sealed blocks; 0 seals instantly after every transaction")
	flags.Uint64("seed", 0, "genesis sequencer address seed")
	flags.String("fee-token-address", "0x4954", "fee token contract address, hex") // "IT" placeholder

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("SEQUENCER")
	v.AutomaticEnv()

	return cmd
}

// rawConfig is the viper.Unmarshal target: felt/address fields come in
// as hex strings from flags or env and are converted by feltDecodeHook.
type rawConfig struct {
	ChainID         string     `mapstructure:"chain-id"`
	BlockTime       uint64     `mapstructure:"block-time"`
	Seed            uint64     `mapstructure:"seed"`
	FeeTokenAddress *felt.Felt `mapstructure:"fee-token-address"`
}

// feltDecodeHook converts a hex string into a *felt.Felt wherever
// mapstructure finds one as the decode target, so StarknetConfig's
// address fields can come straight from flags/env without a manual
// parse step at each call site.
func feltDecodeHook() mapstructure.DecodeHookFunc {
	feltPtrType := reflect.TypeOf((*felt.Felt)(nil))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != feltPtrType {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, errors.Wrapf(err, "decode felt %q", s)
		}
		return new(felt.Felt).SetBytes(b), nil
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	var raw rawConfig
	if err := v.Unmarshal(&raw, viper.DecodeHook(feltDecodeHook())); err != nil {
		return errors.Wrap(err, "decode config")
	}

	starknetCfg := sequencer.StarknetConfig{
		ChainID:            raw.ChainID,
		SequencerAddress:   new(felt.Felt).SetUint64(raw.Seed + 1),
		FeeTokenAddress:    raw.FeeTokenAddress,
		GasPrice:           new(felt.Felt).SetUint64(1),
		InitialTimestamp:   0,
		GenesisAllocations: nil,
	}

	var blockTime *uint64
	if raw.BlockTime > 0 {
		bt := raw.BlockTime
		blockTime = &bt
	}
	cfg := sequencer.SequencerConfig{
		BlockTime:              blockTime,
		AllowDevnetAffordances: true,
	}

	core, err := sequencer.New(starknetCfg, cfg, refexec.Executor{}, log, nil)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := core.Start(runCtx); err != nil {
		return err
	}
	log.Info("sequencer running, waiting for shutdown signal")

	<-runCtx.Done()
	log.Info("shutting down")
	core.Stop()
	return nil
}
