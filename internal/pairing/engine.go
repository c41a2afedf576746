package pairing

import (
	"context"
	"log/slog"

	"clippair/internal/catalogue"
	"clippair/internal/logging"
)

// Options configures one pairing run.
type Options struct {
	Policy     Policy
	PathPrefix string
	// Pivots maps variant to baseline agent; only the baseline policy reads it.
	Pivots map[string]string
	// SampleSize and Seed are read only by the tournament policy.
	SampleSize int
	Seed       int64
	// IDWidth of zero selects DefaultIDWidth. The CLI never passes zero;
	// config validation requires a positive width.
	IDWidth    int
	Collisions CollisionPolicy
}

// Validate checks options that can be rejected before touching the catalogue.
func (o Options) Validate() error {
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if _, err := ParseCollisionPolicy(string(o.Collisions)); err != nil {
		return err
	}
	if o.IDWidth < 0 {
		return configError("id_width", "", "must not be negative")
	}
	if o.Policy == PolicyTournament && o.SampleSize < 2 {
		return configError("k", "", "tournament sample size must be at least 2")
	}
	return nil
}

// Stats summarizes a run.
type Stats struct {
	Entries       int
	Groups        int
	Candidates    int
	Pairs         int
	Duplicates    int
	SkippedGroups int
	Collisions    int
}

// Result is the output of Generate.
type Result struct {
	Records []Record
	Stats   Stats
}

// Generate runs the full pipeline over validated entries.
func Generate(entries []catalogue.Entry, opts Options, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "pairing")

	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, err
	}
	opts.Policy = policy
	if opts.Collisions, err = ParseCollisionPolicy(string(opts.Collisions)); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	idx, err := BuildIndex(entries, policy.Axis(), opts.Collisions)
	if err != nil {
		return nil, err
	}
	for _, c := range idx.Collisions {
		logging.Warn(context.Background(), logger, "catalogue collision resolved", "catalogue_collision",
			logging.String("group", c.Key.String()),
			logging.String(string(c.Axis), c.Value),
			logging.String("kept", c.Kept.RelPath),
			logging.String("kept_id", c.Kept.ID),
			logging.String("dropped", c.Dropped.RelPath),
			logging.String("dropped_id", c.Dropped.ID),
			logging.String("collision_policy", string(opts.Collisions)),
			logging.String(logging.FieldErrorHint, "remove duplicate addresses from the catalogue"),
			logging.String(logging.FieldImpact, "one clip at this address is excluded from pairing"),
		)
	}

	if policy == PolicyBaseline {
		for _, ignored := range ResolvePivots(idx, opts.Pivots).Ignored {
			logger.Debug("pivot override not observed in scope; using lexicographic default",
				logging.String("scenario", ignored.Scope.Scenario),
				logging.String("variant", ignored.Scope.Variant),
				logging.String("agent", ignored.Agent),
			)
		}
	}

	candidates, err := Candidates(idx, opts)
	if err != nil {
		return nil, err
	}

	seq := NewSequencer(opts.PathPrefix, opts.IDWidth)
	productive := make(map[GroupKey]struct{})
	for _, c := range candidates {
		productive[c.Group] = struct{}{}
		seq.Accept(c)
	}

	stats := Stats{
		Entries:       len(entries),
		Groups:        len(idx.Groups()),
		Candidates:    len(candidates),
		Pairs:         len(seq.Records()),
		Duplicates:    seq.Duplicates(),
		SkippedGroups: len(idx.Groups()) - len(productive),
		Collisions:    len(idx.Collisions),
	}
	logger.Debug("pairing complete",
		logging.String("policy", string(policy)),
		logging.Int("entries", stats.Entries),
		logging.Int("groups", stats.Groups),
		logging.Int("candidates", stats.Candidates),
		logging.Int("pairs", stats.Pairs),
		logging.Int("duplicates", stats.Duplicates),
		logging.Int("skipped_groups", stats.SkippedGroups),
	)
	return &Result{Records: seq.Records(), Stats: stats}, nil
}
