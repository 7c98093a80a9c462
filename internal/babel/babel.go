// Package babel is the compiler facade: it resolves preset and plugin
// configurations against a registry, parses the source, runs the plugins in
// one merged traversal, and prints the result.
//
// The API mirrors Babel's standalone build. A Babel value owns its registry;
// the package-level functions use Default.
package babel

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/generator"
	"github.com/roach88/babelgo/internal/parser"
	"github.com/roach88/babelgo/internal/plugins"
	"github.com/roach88/babelgo/internal/registry"
	"github.com/roach88/babelgo/internal/traverse"
)

// Version is the Babel release whose output the builtin plugins reproduce.
const Version = "6.26.0"

type (
	PluginFactory = registry.PluginFactory
	PresetFactory = registry.PresetFactory
	PresetDef     = registry.PresetDef
	Item          = registry.Item
)

// Result is the output of a transform.
type Result struct {
	Code     string
	Map      *generator.SourceMap
	AST      *ast.Program
	Metadata Metadata
}

// Metadata describes how a result was produced.
type Metadata struct {
	// UsedPlugins lists the plugins that ran, in traversal order.
	UsedPlugins []string
}

// Babel compiles JavaScript with the presets and plugins of its registry.
// It is safe for concurrent use.
type Babel struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Babel.
type Option func(*Babel)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(b *Babel) {
		b.logger = l
	}
}

// WithRegistry uses r instead of a new registry seeded with the builtins.
func WithRegistry(r *registry.Registry) Option {
	return func(b *Babel) {
		b.registry = r
	}
}

// New returns a compiler with its own registry holding the builtin presets
// and plugins.
func New(opts ...Option) *Babel {
	b := &Babel{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = registry.New()
		plugins.Register(b.registry)
	}
	return b
}

// Registry exposes the compiler's registry.
func (b *Babel) Registry() *registry.Registry {
	return b.registry
}

// RegisterPlugin makes a plugin available by name to later transforms. A nil
// f removes the name.
func (b *Babel) RegisterPlugin(name string, f PluginFactory) {
	b.logger.Debug("plugin registered", "name", name)
	b.registry.RegisterPlugin(name, f)
}

// RegisterPreset makes a preset available by name to later transforms. A nil
// f removes the name.
func (b *Babel) RegisterPreset(name string, f PresetFactory) {
	b.logger.Debug("preset registered", "name", name)
	b.registry.RegisterPreset(name, f)
}

// AvailablePlugins lists the plugin names the compiler resolves.
func (b *Babel) AvailablePlugins() []string {
	return b.registry.PluginNames()
}

// AvailablePresets lists the preset names the compiler resolves.
func (b *Babel) AvailablePresets() []string {
	return b.registry.PresetNames()
}

// Transform compiles code. Blank lines between source statements are kept.
func (b *Babel) Transform(code string, opts Options) (*Result, error) {
	entries, err := b.resolve(opts)
	if err != nil {
		return nil, err
	}

	popts := opts.parserOptions()
	for _, e := range entries {
		if e.Plugin.ManipulateOptions != nil {
			e.Plugin.ManipulateOptions(&popts, e.Options)
		}
	}
	prog, text, err := parser.Parse(code, popts)
	if err != nil {
		return nil, err
	}
	return b.run(prog, text, opts, entries, true)
}

// TransformFromAst compiles an existing tree. code is the source the tree's
// spans refer to and feeds source maps. The tree is copied, never modified.
// Statements and expressions are wrapped in a program.
func (b *Babel) TransformFromAst(node ast.Node, code string, opts Options) (*Result, error) {
	entries, err := b.resolve(opts)
	if err != nil {
		return nil, err
	}
	prog, err := programOf(node)
	if err != nil {
		return nil, err
	}
	return b.run(prog, code, opts, entries, false)
}

func (b *Babel) run(prog *ast.Program, code string, opts Options, entries []traverse.Entry, retainLines bool) (*Result, error) {
	used := make([]string, len(entries))
	for i, e := range entries {
		used[i] = e.Plugin.Name
	}
	b.logger.Debug("transform", "filename", opts.filename(), "plugins", strings.Join(used, ","))

	file := traverse.NewFile(prog, code, opts.filename())
	file.Logger = b.logger
	if err := traverse.Traverse(file, entries); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.filename(), err)
	}

	gen := generator.Generate(prog, generator.Options{
		Code:           code,
		RetainLines:    retainLines,
		SourceMaps:     opts.SourceMaps,
		SourceFileName: opts.filename(),
	})
	res := &Result{Code: gen.Code, Map: gen.Map, Metadata: Metadata{UsedPlugins: used}}
	if opts.AST {
		res.AST = prog
	}
	return res, nil
}

func programOf(node ast.Node) (*ast.Program, error) {
	if ast.IsNil(node) {
		return nil, &OptionError{Field: "ast", Message: "no tree given"}
	}
	data, err := ast.Marshal(node)
	if err != nil {
		return nil, &OptionError{Field: "ast", Message: "cannot copy tree", Err: err}
	}
	copied, err := ast.Decode(data)
	if err != nil {
		return nil, &OptionError{Field: "ast", Message: "cannot copy tree", Err: err}
	}
	switch {
	case copied.Type() == ast.KindProgram:
		return copied.(*ast.Program), nil
	case ast.IsStatement(copied):
		return &ast.Program{SourceType: parser.SourceModule, Body: []ast.Node{copied}}, nil
	case ast.IsExpression(copied):
		return &ast.Program{SourceType: parser.SourceModule, Body: []ast.Node{ast.NewExpressionStatement(copied)}}, nil
	}
	return nil, &OptionError{Field: "ast", Message: fmt.Sprintf("cannot compile a %s on its own", copied.Type())}
}
