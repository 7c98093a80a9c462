package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/config"
	"github.com/roach88/babelgo/internal/generator"
	"github.com/roach88/babelgo/internal/registry"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	Presets    []string
	Plugins    []string
	Config     string // options file; found by walking up from the input when empty
	NoBabelrc  bool
	PresetsDir string // CUE preset definitions
	ASTInput   bool   // input is a Babel JSON syntax tree
	Source     string // source text the AST input was parsed from
	Output     string
	SourceMaps bool
	Watch      bool
}

// TransformOutput is the JSON payload of the transform command.
type TransformOutput struct {
	Code        string               `json:"code"`
	Map         *generator.SourceMap `json:"map,omitempty"`
	UsedPlugins []string             `json:"used_plugins"`
	Output      string               `json:"output,omitempty"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Compile a JavaScript file",
		Long: `Compile a JavaScript file with the configured presets and plugins.

Reads standard input when the file is omitted or "-". Options come from
the nearest .babelrc, .babelrc.json or babel.config.json above the input
unless --config names one or --no-babelrc is set; --presets and --plugins
are applied after the file's own.

Examples:
  babelgo transform app.js --presets es2015,react
  babelgo transform app.js -o dist/app.js --source-maps
  babelgo transform tree.json --ast-input --source app.js
  cat app.js | babelgo transform --plugins transform-es2015-arrow-functions`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runTransform(cmd.Context(), opts, file, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Presets, "presets", nil, "presets to apply, comma separated")
	cmd.Flags().StringSliceVar(&opts.Plugins, "plugins", nil, "plugins to apply, comma separated")
	cmd.Flags().StringVar(&opts.Config, "config", "", "options file (JSON with comments)")
	cmd.Flags().BoolVar(&opts.NoBabelrc, "no-babelrc", false, "do not look for an options file")
	cmd.Flags().StringVar(&opts.PresetsDir, "presets-dir", "", "directory or file of CUE preset definitions")
	cmd.Flags().BoolVar(&opts.ASTInput, "ast-input", false, "input is a Babel JSON syntax tree")
	cmd.Flags().StringVar(&opts.Source, "source", "", "source file the AST input was parsed from")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.SourceMaps, "source-maps", false, "generate a source map")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompile when the input changes")

	return cmd
}

func runTransform(ctx context.Context, opts *TransformOptions, file string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	b, err := newCompiler(opts.RootOptions, opts.PresetsDir)
	if err != nil {
		return formatter.Fail(ErrCodeInvalidConfig, "failed to load presets", err)
	}

	once := func() error {
		return transformOnce(b, opts, file, cmd.InOrStdin(), formatter)
	}
	if !opts.Watch {
		return once()
	}

	if isStdin(file) {
		return formatter.Fail(ErrCodeGeneric, "--watch needs an input file", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()
	if err := once(); err != nil {
		logger.Error("transform failed", "file", file, "error", err)
	}

	paths := []string{file}
	if opts.Source != "" {
		paths = append(paths, opts.Source)
	}
	if opts.Config != "" {
		paths = append(paths, opts.Config)
	}
	w := NewWatcher(paths, once)
	w.SetLogger(logger)
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitCommandError, "watch failed", err)
	}
	return nil
}

func transformOnce(b *babel.Babel, opts *TransformOptions, file string, stdin io.Reader, f *OutputFormatter) error {
	input, err := readInput(file, stdin)
	if err != nil {
		return f.Fail(ErrCodeReadFailed, "failed to read input", err)
	}

	bopts, err := opts.babelOptions(file)
	if err != nil {
		return f.Fail(ErrCodeInvalidConfig, "invalid options", err)
	}
	f.VerboseLog("Presets: %v, plugins: %v", babel.ItemNames(bopts.Presets), babel.ItemNames(bopts.Plugins))

	res, err := opts.compile(b, input, bopts)
	if err != nil {
		if babel.IsResolveError(err) {
			return f.Fail(ErrCodeInvalidConfig, "invalid options", err)
		}
		return f.Fail(ErrCodeCompileFailed, "transform failed", err)
	}
	return writeResult(opts, res, f)
}

// babelOptions merges the options file with the command line flags.
func (o *TransformOptions) babelOptions(file string) (babel.Options, error) {
	var base babel.Options
	path := o.Config
	if path == "" && !o.NoBabelrc {
		dir := "."
		if !isStdin(file) {
			dir = filepath.Dir(file)
		}
		found, err := config.FindBabelrc(dir)
		if err != nil {
			return base, err
		}
		path = found
	}
	if path != "" {
		loaded, err := config.LoadBabelrc(path)
		if err != nil {
			return base, err
		}
		base = loaded
	}

	flags := babel.Options{
		Presets:    namedItems(o.Presets),
		Plugins:    namedItems(o.Plugins),
		SourceMaps: o.SourceMaps,
	}
	switch {
	case o.ASTInput && o.Source != "":
		flags.Filename = o.Source
	case !o.ASTInput && !isStdin(file):
		flags.Filename = file
	}
	return config.Merge(base, flags), nil
}

func (o *TransformOptions) compile(b *babel.Babel, input []byte, opts babel.Options) (*babel.Result, error) {
	if !o.ASTInput {
		return b.Transform(string(input), opts)
	}
	tree, err := ast.Decode(input)
	if err != nil {
		return nil, err
	}
	var source string
	if o.Source != "" {
		data, err := os.ReadFile(o.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		source = string(data)
	}
	return b.TransformFromAst(tree, source, opts)
}

func writeResult(opts *TransformOptions, res *babel.Result, f *OutputFormatter) error {
	out := TransformOutput{
		Code:        res.Code,
		Map:         res.Map,
		UsedPlugins: res.Metadata.UsedPlugins,
	}

	if opts.Output != "" {
		code := res.Code
		if res.Map != nil {
			data, err := res.Map.JSON()
			if err != nil {
				return f.Fail(ErrCodeGeneric, "failed to encode source map", err)
			}
			mapFile := opts.Output + ".map"
			if err := writeFile(mapFile, data); err != nil {
				return f.Fail(ErrCodeWriteFailed, "failed to write source map", err)
			}
			code += "\n//# sourceMappingURL=" + filepath.Base(mapFile)
		}
		if err := writeFile(opts.Output, []byte(code+"\n")); err != nil {
			return f.Fail(ErrCodeWriteFailed, "failed to write output", err)
		}
		opts.logger().Info("compiled", "output", opts.Output)
		out.Output = opts.Output
		if f.Format == "json" {
			return f.Success(out)
		}
		return nil
	}

	if f.Format == "json" {
		return f.Success(out)
	}
	fmt.Fprintln(f.Writer, res.Code)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if isStdin(file) {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

func isStdin(file string) bool {
	return file == "" || file == "-"
}

func namedItems(names []string) []babel.Item {
	names = lo.Compact(lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) }))
	return lo.Map(names, func(n string, _ int) babel.Item { return registry.Named(n) })
}
