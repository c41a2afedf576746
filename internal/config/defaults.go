package config

const (
	defaultConfigPath = "~/.config/clippair/config.toml"
	projectConfigName = "clippair.toml"
	runLogFileName    = "runs.db"

	defaultCatalogue  = "catalogue.json"
	defaultOutput     = "clip_pairs.json"
	defaultStateDir   = "~/.local/share/clippair"
	defaultPolicy     = "cross-agent"
	defaultSampleSize = 4
	defaultSeed       = 42
	defaultIDWidth    = 6
	defaultCollision  = "last-write-wins"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	envPolicy     = "CLIPPAIR_POLICY"
	envPathPrefix = "CLIPPAIR_PATH_PREFIX"
)

// Default returns a Config populated with repository defaults. Policy and
// path prefix stay empty so environment fallbacks can apply during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			Catalogue: defaultCatalogue,
			Output:    defaultOutput,
			StateDir:  defaultStateDir,
		},
		Pairing: Pairing{
			SampleSize: defaultSampleSize,
			Seed:       defaultSeed,
			IDWidth:    defaultIDWidth,
			Collision:  defaultCollision,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
