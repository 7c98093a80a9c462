package cli

import (
	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/config"
)

// newCompiler returns a compiler seeded with the builtins plus the presets
// defined in presetsDir, when set.
func newCompiler(opts *RootOptions, presetsDir string) (*babel.Babel, error) {
	logger := opts.logger()
	b := babel.New(babel.WithLogger(logger))
	if presetsDir == "" {
		return b, nil
	}
	specs, err := config.LoadPresets(presetsDir)
	if err != nil {
		return nil, err
	}
	config.Register(b, specs)
	logger.Debug("presets loaded", "path", presetsDir, "count", len(specs))
	return b, nil
}
