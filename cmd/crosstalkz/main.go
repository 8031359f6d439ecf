// Command crosstalkz assesses crosstalk enrichment between gene groupings
// against a degree-preserving empirical null model.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosstalkz/crosstalkz/pkg/config"
	"github.com/crosstalkz/crosstalkz/pkg/crosstalk"
	"github.com/crosstalkz/crosstalkz/pkg/crosstalkerr"
	"github.com/crosstalkz/crosstalkz/pkg/nullmodel"
	"github.com/crosstalkz/crosstalkz/pkg/orchestrator"
	"github.com/crosstalkz/crosstalkz/pkg/report"
	"github.com/crosstalkz/crosstalkz/pkg/validation"
)

var (
	flagNetwork      string
	flagGroups       string
	flagGroupsA      string
	flagGroupsB      string
	flagCutoff       float64
	flagMethod       int
	flagReplicas     int
	flagCountingMode int
	flagOutput       string
	flagHyper        bool
	flagWriteReplica string
	flagMinGroupSize int
	flagSeed         int64
)

func main() {
	root := &cobra.Command{
		Use:   "crosstalkz",
		Short: "Crosstalk enrichment between gene groups via degree-preserving null models",
		RunE:  run,
	}

	flags := root.Flags()
	flags.StringVarP(&flagNetwork, "network", "n", "", "network file, XGMML or TSV (required)")
	flags.StringVarP(&flagGroups, "groups", "g", "", "single group file (all-vs-all mode)")
	flags.StringVarP(&flagGroupsA, "groups-a", "a", "", "first group file (A-vs-B mode)")
	flags.StringVarP(&flagGroupsB, "groups-b", "b", "", "second group file (A-vs-B mode)")
	flags.Float64VarP(&flagCutoff, "cutoff", "c", 0.0, "link-weight cutoff")
	flags.IntVarP(&flagMethod, "method", "d", 2, "generator method: 0 link-swap, 1 link-assignment, 2 link-assignment+second-order, 3 label-swap")
	flags.IntVarP(&flagReplicas, "replicas", "i", 100, "replica count")
	flags.IntVarP(&flagCountingMode, "counting-mode", "m", 0, "crosstalk filter mode: 0 or 1")
	flags.StringVarP(&flagOutput, "output", "o", "", "output file path (required)")
	flags.BoolVarP(&flagHyper, "hypergeometric", "p", false, "also compute hypergeometric overlap probability")
	flags.StringVarP(&flagWriteReplica, "write-replica", "w", "", "write one randomized graph to PATH and exit")
	flags.IntVarP(&flagMinGroupSize, "min-group-size", "x", 10, "minimum members per group after network filtering")
	flags.Int64Var(&flagSeed, "seed", 0, "fix the PRNG seed for reproducibility (default: wall-clock)")

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := config.New()
	applyFlagOverrides(cfg)
	log := cfg.CreateLogger()

	if err := validation.ValidateFlagCombination(validation.CLIFlags{
		NetworkPath:  flagNetwork,
		GroupPath:    flagGroups,
		GroupAPath:   flagGroupsA,
		GroupBPath:   flagGroupsB,
		Method:       flagMethod,
		CountingMode: flagCountingMode,
	}); err != nil {
		return err
	}
	if err := validation.RequireReadableFile("-n", flagNetwork); err != nil {
		return err
	}
	if flagGroups != "" {
		if err := validation.RequireReadableFile("-g", flagGroups); err != nil {
			return err
		}
	} else {
		if err := validation.RequireReadableFile("-a", flagGroupsA); err != nil {
			return err
		}
		if err := validation.RequireReadableFile("-b", flagGroupsB); err != nil {
			return err
		}
	}

	if flagWriteReplica == "" {
		if flagOutput == "" {
			return &crosstalkerr.InputMissingError{Flag: "-o"}
		}
		if err := validation.ValidateOutputDirectory(flagOutput); err != nil {
			return err
		}
	} else {
		if err := validation.ValidateOutputDirectory(flagWriteReplica); err != nil {
			return err
		}
	}

	params := orchestrator.Params{
		NetworkPath:      flagNetwork,
		GroupPath:        flagGroups,
		GroupAPath:       flagGroupsA,
		GroupBPath:       flagGroupsB,
		WeightCutoff:     cfg.WeightCutoff(),
		UseWeightCutoff:  cfg.UseWeightCutoff(),
		Method:           nullmodel.Method(cfg.GeneratorMethod()),
		Replicas:         cfg.Replicas(),
		CountingMode:     crosstalk.Mode(cfg.CountingMode()),
		MinGroupSize:     cfg.MinGroupSize(),
		Hypergeometric:   cfg.Hypergeometric(),
		WriteReplicaPath: flagWriteReplica,
		Seed:             cfg.RandomSeed(),
		UseFixedSeed:     cfg.UseFixedSeed(),
	}

	log.Info().
		Str("network", flagNetwork).
		Int("method", int(params.Method)).
		Int("replicas", params.Replicas).
		Msg("starting run")

	result, err := orchestrator.Run(params, log)
	if err != nil {
		return err
	}
	if result == nil {
		log.Info().Str("path", flagWriteReplica).Msg("wrote one randomized replica")
		return nil
	}

	if err := report.WriteResults(flagOutput, result.Pairs); err != nil {
		return err
	}
	infoPath := flagOutput + ".info"
	if err := report.WriteInfo(infoPath, result.Summary); err != nil {
		return err
	}

	log.Info().
		Int("pairs", len(result.Pairs)).
		Str("results", flagOutput).
		Str("info", infoPath).
		Msg("run complete")
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	cfg.Set("generator.method", flagMethod)
	cfg.Set("generator.replicas", flagReplicas)
	cfg.Set("counting.mode", flagCountingMode)
	cfg.Set("counting.min_group_size", flagMinGroupSize)
	cfg.Set("counting.hypergeometric", flagHyper)
	cfg.Set("network.weight_cutoff", flagCutoff)
	cfg.Set("network.use_cutoff", flagCutoff != 0)
	if flagSeed != 0 {
		cfg.Set("random.seed", flagSeed)
		cfg.Set("random.use_fixed_seed", true)
	}
}

// exitCodeFor reports err on stderr and returns the process exit code. The
// fatal input/resource error kinds are printed as they are; any other error
// is printed as an internal error. Both exit with status 1.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *crosstalkerr.InputFormatError, *crosstalkerr.InputMissingError,
		*crosstalkerr.NoGroupsError, *crosstalkerr.OutOfMemoryError:
		fmt.Fprintln(os.Stderr, "crosstalkz:", err)
		return 1
	default:
		fmt.Fprintln(os.Stderr, "crosstalkz: internal error:", err)
		return 1
	}
}
