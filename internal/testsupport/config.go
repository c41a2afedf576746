package testsupport

import (
	"path/filepath"
	"testing"

	"clippair/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Catalogue = filepath.Join(base, "catalogue.json")
	cfgVal.Paths.Output = filepath.Join(base, "out", "clip_pairs.json")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Pairing.Policy = "cross-agent"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPolicy sets the pairing policy on the test config.
func WithPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pairing.Policy = policy
	}
}

// WithPathPrefix sets the output path prefix on the test config.
func WithPathPrefix(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pairing.PathPrefix = prefix
	}
}

// WithPivots sets inline pivot overrides on the test config.
func WithPivots(pivots map[string]string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pairing.Pivots = pivots
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
