package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clippair/internal/catalogue"
	"clippair/internal/config"
	"clippair/internal/logging"
	"clippair/internal/pairfile"
	"clippair/internal/pairing"
	"clippair/internal/runlog"
)

type generateFlags struct {
	catalogue  string
	out        string
	policy     string
	pathPrefix string
	pivotJSON  string
	sampleSize int
	seed       int64
	idWidth    int
	collision  string
	dryRun     bool
	noLedger   bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the comparison pair list for a catalogue",
		Long: `Generate reads the clip catalogue, groups clips under the selected policy,
and writes an ordered, deduplicated pair list.

Policies:
  cross-agent (A)    pair every agent within (scenario, variant, route, clip)
  cross-variant (B)  pair every variant within (scenario, agent, route, clip)
  baseline (C)       pair one pivot agent per variant against each challenger
  tournament (D)     sample k agents per group with a fixed seed, then pair them`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := applyGenerateFlags(cmd, cfg, flags); err != nil {
				return err
			}
			return runGenerate(cmd, cfg, logger, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.catalogue, "catalogue", "", "Catalogue JSON file (default paths.catalogue)")
	f.StringVar(&flags.out, "out", "", "Output pair list (default paths.output)")
	f.StringVar(&flags.policy, "policy", "", "Pairing policy: cross-agent, cross-variant, baseline, tournament (or A-D)")
	f.StringVar(&flags.policy, "strategy", "", "Alias for --policy")
	f.StringVar(&flags.pathPrefix, "path-prefix", "", "Prefix joined to every rel_path in the output ('' to disable)")
	f.StringVar(&flags.pivotJSON, "pivot-json", "", "JSON file mapping variant to baseline agent")
	f.IntVar(&flags.sampleSize, "k", 0, "Tournament sample size per group")
	f.Int64Var(&flags.seed, "seed", 0, "Tournament random seed")
	f.IntVar(&flags.idWidth, "id-width", 0, "Zero-pad width of pair IDs")
	f.StringVar(&flags.collision, "on-collision", "", "Duplicate address handling: last-write-wins, first-write-wins, reject")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Compute pairs and report counts without writing")
	f.BoolVar(&flags.noLedger, "no-ledger", false, "Do not record the run in the run ledger")

	return cmd
}

// applyGenerateFlags copies explicitly set flags over the loaded config and
// validates the result with the same rules as the config file.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, flags generateFlags) error {
	changed := cmd.Flags().Changed
	if changed("catalogue") {
		cfg.Paths.Catalogue = flags.catalogue
	}
	if changed("out") {
		cfg.Paths.Output = flags.out
	}
	if changed("policy") || changed("strategy") {
		cfg.Pairing.Policy = flags.policy
	}
	if changed("path-prefix") {
		// Blank counts as no prefix, as it does for the TOML and env values.
		cfg.Pairing.PathPrefix = strings.TrimSpace(flags.pathPrefix)
	}
	if changed("pivot-json") {
		cfg.Pairing.PivotFile = flags.pivotJSON
		cfg.Pairing.Pivots = nil
	}
	if changed("k") {
		cfg.Pairing.SampleSize = flags.sampleSize
	}
	if changed("seed") {
		cfg.Pairing.Seed = flags.seed
	}
	if changed("id-width") {
		cfg.Pairing.IDWidth = flags.idWidth
	}
	if changed("on-collision") {
		cfg.Pairing.Collision = flags.collision
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", pairing.ErrConfiguration, err)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, flags generateFlags) error {
	policy, err := pairing.ParsePolicy(cfg.Pairing.Policy)
	if err != nil {
		return err
	}
	collisions, err := pairing.ParseCollisionPolicy(cfg.Pairing.Collision)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx := logging.WithPolicy(logging.WithRunID(cmd.Context(), runID), string(policy))
	logger = logging.NewComponentLogger(logging.WithContext(runCtx, logger), "generate")

	pivots, err := resolvePivots(cfg)
	if err != nil {
		return err
	}

	entries, err := catalogue.Load(cfg.Paths.Catalogue)
	if err != nil {
		return err
	}
	for _, addr := range catalogue.DuplicateAddresses(entries) {
		logger.Debug("duplicate catalogue address",
			logging.String("scenario", addr.Scenario),
			logging.String("variant", addr.Variant),
			logging.String("agent", addr.Agent),
			logging.Int("route_id", addr.RouteID),
			logging.Int("clip_idx", addr.ClipIdx),
		)
	}

	opts := pairing.Options{
		Policy:     policy,
		PathPrefix: cfg.Pairing.PathPrefix,
		Pivots:     pivots,
		SampleSize: cfg.Pairing.SampleSize,
		Seed:       cfg.Pairing.Seed,
		IDWidth:    cfg.Pairing.IDWidth,
		Collisions: collisions,
	}
	result, err := pairing.Generate(entries, opts, logger)
	if err != nil {
		return err
	}
	stats := result.Stats
	logger.InfoContext(runCtx, "pairs generated",
		logging.String("catalogue", cfg.Paths.Catalogue),
		logging.Int("entries", stats.Entries),
		logging.Int("groups", stats.Groups),
		logging.Int("candidates", stats.Candidates),
		logging.Int("pairs", stats.Pairs),
		logging.Int("duplicates", stats.Duplicates),
		logging.Int("skipped_groups", stats.SkippedGroups),
	)

	out := cmd.OutOrStdout()
	if flags.dryRun {
		fmt.Fprintf(out, "Would write %d pairs to %s\n", stats.Pairs, cfg.Paths.Output)
		return nil
	}

	digest, err := pairfile.Write(cfg.Paths.Output, result.Records)
	if err != nil {
		return err
	}

	if !flags.noLedger {
		var recordedPivots map[string]string
		if policy == pairing.PolicyBaseline {
			recordedPivots = pivots
		}
		recordRun(runCtx, cfg, logger, runlog.Run{
			ID:            runID,
			Policy:        string(policy),
			CataloguePath: absPath(cfg.Paths.Catalogue),
			OutputPath:    absPath(cfg.Paths.Output),
			Entries:       stats.Entries,
			Candidates:    stats.Candidates,
			Pairs:         stats.Pairs,
			Duplicates:    stats.Duplicates,
			SkippedGroups: stats.SkippedGroups,
			Collisions:    stats.Collisions,
			Seed:          cfg.Pairing.Seed,
			SampleSize:    cfg.Pairing.SampleSize,
			PathPrefix:    cfg.Pairing.PathPrefix,
			IDWidth:       cfg.Pairing.IDWidth,
			OutputSHA256:  digest,
			Collision:     string(collisions),
			Pivots:        recordedPivots,
		})
	}

	fmt.Fprintf(out, "Wrote %d pairs to %s\n", stats.Pairs, cfg.Paths.Output)
	return nil
}

// resolvePivots merges the pivot file with inline [pairing.pivots] entries;
// inline entries win.
func resolvePivots(cfg *config.Config) (map[string]string, error) {
	pivots := make(map[string]string)
	if file := strings.TrimSpace(cfg.Pairing.PivotFile); file != "" {
		fromFile, err := pairfile.ReadPivots(file)
		if err != nil {
			return nil, err
		}
		maps.Copy(pivots, fromFile)
	}
	maps.Copy(pivots, cfg.Pairing.Pivots)
	return pivots, nil
}

// recordRun stores the run in the ledger. The pair file is already written,
// so ledger failures are reported but do not fail the command.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, run runlog.Run) {
	store, err := runlog.Open(cfg)
	if err != nil {
		logging.Warn(ctx, logger, "run ledger unavailable", "runlog_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.state_dir permissions"),
			logging.String(logging.FieldImpact, "this run is missing from clippair history"),
		)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, run); err != nil {
		logging.Warn(ctx, logger, "run not recorded", "runlog_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is missing from clippair history"),
		)
		return
	}
	logger.DebugContext(ctx, "run recorded", logging.String("ledger", store.Path()))
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
