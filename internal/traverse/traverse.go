// Package traverse walks an ast tree with merged plugin visitors.
//
// All plugins of a transform share one depth-first pass. For each node the
// enter hooks of every plugin run in plugin order, then the children are
// visited, then the exit hooks run. A hook that replaces its node stops the
// remaining hooks for that node; the replacement is visited from scratch.
package traverse

import (
	"fmt"
	"log/slog"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/parser"
)

// DefaultMaxRequeues bounds how often a single slot may be replaced and
// revisited before the traversal gives up.
const DefaultMaxRequeues = 100

// Handler is a visitor callback for one node.
type Handler func(path *Path, pass *Pass) error

// Hooks are the callbacks run when a node is entered and exited.
type Hooks struct {
	Enter Handler
	Exit  Handler
}

// Enter is shorthand for Hooks with only an enter callback.
func Enter(h Handler) Hooks { return Hooks{Enter: h} }

// Exit is shorthand for Hooks with only an exit callback.
func Exit(h Handler) Hooks { return Hooks{Exit: h} }

// Visitor maps node kinds, or aliases such as ast.AliasFunction, to hooks.
type Visitor map[ast.Kind]Hooks

// Plugin is a transformation unit.
type Plugin struct {
	Name    string
	Visitor Visitor

	// Pre and Post run once before and after the traversal.
	Pre  func(pass *Pass) error
	Post func(pass *Pass) error

	// ManipulateOptions adjusts parser options before the source is read.
	ManipulateOptions func(opts *parser.Options, pluginOpts map[string]any)
}

// Entry pairs a plugin with the options it was configured with.
type Entry struct {
	Plugin  *Plugin
	Options map[string]any
}

// Option configures a traversal.
type Option func(*traverser)

// WithMaxRequeues overrides DefaultMaxRequeues.
func WithMaxRequeues(n int) Option {
	return func(t *traverser) {
		t.maxRequeues = n
	}
}

type boundHandler struct {
	pass  *Pass
	hooks Hooks
}

type traverser struct {
	handlers    map[ast.Kind][]boundHandler
	maxRequeues int
	logger      *slog.Logger
}

// Traverse runs entries over file in a single merged pass.
func Traverse(file *File, entries []Entry, opts ...Option) error {
	t := &traverser{
		handlers:    map[ast.Kind][]boundHandler{},
		maxRequeues: DefaultMaxRequeues,
		logger:      file.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}

	passes := make([]*Pass, len(entries))
	for i, e := range entries {
		opts := e.Options
		if opts == nil {
			opts = map[string]any{}
		}
		passes[i] = &Pass{Plugin: e.Plugin, Opts: opts, File: file}
		for name, hooks := range e.Plugin.Visitor {
			kinds := ast.Expand(name)
			if len(kinds) == 0 {
				return &PluginError{
					Code:   ErrCodeVisitor,
					Plugin: e.Plugin.Name,
					Err:    fmt.Errorf("visitor targets unknown node type %q", name),
				}
			}
			for _, kind := range kinds {
				t.handlers[kind] = append(t.handlers[kind], boundHandler{pass: passes[i], hooks: hooks})
			}
		}
	}

	for _, pass := range passes {
		if pass.Plugin.Pre == nil {
			continue
		}
		if err := guard(pass, "", func() error { return pass.Plugin.Pre(pass) }); err != nil {
			return err
		}
	}

	root := &Path{Node: file.Program, Index: -1, file: file}
	if err := t.visit(root); err != nil {
		return err
	}

	for _, pass := range passes {
		if pass.Plugin.Post == nil {
			continue
		}
		if err := guard(pass, "", func() error { return pass.Plugin.Post(pass) }); err != nil {
			return err
		}
	}
	file.FlushHoisted()
	return nil
}

func (t *traverser) visit(p *Path) error {
	for requeues := 0; ; requeues++ {
		if requeues > t.maxRequeues {
			return &PluginError{
				Code:   ErrCodeRequeueExceeded,
				Plugin: "traverse",
				Kind:   p.Node.Type(),
				Err:    fmt.Errorf("node replaced more than %d times", t.maxRequeues),
			}
		}
		node := p.Node
		p.skipped = false

		if err := t.call(p, node, true); err != nil {
			return err
		}
		if p.removed {
			return nil
		}
		if p.Node != node {
			t.logger.Debug("node replaced", "from", node.Type(), "to", p.Node.Type())
			continue
		}

		if !p.skipped {
			if err := t.children(p); err != nil {
				return err
			}
		}

		if err := t.call(p, node, false); err != nil {
			return err
		}
		if p.removed || p.Node == node {
			return nil
		}
	}
}

// call runs the enter or exit hooks registered for node until one of them
// replaces, removes, or skips it.
func (t *traverser) call(p *Path, node ast.Node, enter bool) error {
	for _, h := range t.handlers[node.Type()] {
		fn := h.hooks.Exit
		if enter {
			fn = h.hooks.Enter
		}
		if fn == nil {
			continue
		}
		if err := guard(h.pass, node.Type(), func() error { return fn(p, h.pass) }); err != nil {
			return err
		}
		if p.removed || p.Node != node || (enter && p.skipped) {
			return nil
		}
	}
	return nil
}

func (t *traverser) children(p *Path) error {
	node := p.Node
	for _, f := range ast.Fields(node) {
		if !f.List {
			child := f.Get()
			if child == nil {
				continue
			}
			cp := &Path{Node: child, Parent: node, ParentPath: p, Key: f.Key, Index: -1, field: f, file: p.file}
			if err := t.visit(cp); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < f.Len(); i++ {
			child := f.At(i)
			if child == nil {
				continue
			}
			cp := &Path{Node: child, Parent: node, ParentPath: p, Key: f.Key, Index: i, field: f, listed: true, file: p.file}
			if err := t.visit(cp); err != nil {
				return err
			}
			i = cp.Index
			if cp.removed {
				i--
			}
		}
	}
	return nil
}

// guard runs fn and converts errors and panics into a PluginError.
func guard(pass *Pass, kind ast.Kind, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PluginError{Code: ErrCodeVisitor, Plugin: pass.Plugin.Name, Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		if _, ok := err.(*PluginError); ok {
			return err
		}
		return &PluginError{Code: ErrCodeVisitor, Plugin: pass.Plugin.Name, Kind: kind, Err: err}
	}
	return nil
}
