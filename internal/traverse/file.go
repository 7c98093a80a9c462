package traverse

import (
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
)

// File is the unit a set of plugins transforms: the program, the text its
// spans index, and state shared by every pass over it.
type File struct {
	Program  *ast.Program
	Code     string
	Filename string
	Logger   *slog.Logger

	names   map[string]bool
	globals map[string]bool
	helpers map[string]*ast.Identifier
	hoisted []hoisted
	marks   map[ast.Node]map[string]bool
}

// Hoist priorities order the statements placed above the program body.
// Higher priorities come first.
const (
	HoistHelpers = 1
	HoistImports = 2
	HoistExports = 3
)

type hoisted struct {
	priority int
	node     ast.Node
}

// NewFile wraps a program for transformation.
func NewFile(prog *ast.Program, code, filename string) *File {
	return &File{
		Program:  prog,
		Code:     code,
		Filename: filename,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		helpers:  map[string]*ast.Identifier{},
	}
}

func (f *File) collectNames() {
	if f.names != nil {
		return
	}
	f.names = map[string]bool{}
	declared := map[string]bool{}
	var refs []string
	ast.Inspect(f.Program, func(n, parent ast.Node, key string) bool {
		id, ok := n.(*ast.Identifier)
		if !ok {
			for _, name := range ast.DeclaredNames(n) {
				declared[name] = true
			}
			if params, _, ok := ast.FunctionParts(n); ok {
				for _, p := range *params {
					for _, name := range ast.BindingNames(p) {
						declared[name] = true
					}
				}
			}
			if cc, ok := n.(*ast.CatchClause); ok && cc.Param != nil {
				for _, name := range ast.BindingNames(cc.Param) {
					declared[name] = true
				}
			}
			if fe, ok := n.(*ast.FunctionExpression); ok && fe.ID != nil {
				declared[fe.ID.Name] = true
			}
			if ce, ok := n.(*ast.ClassExpression); ok && ce.ID != nil {
				declared[ce.ID.Name] = true
			}
			return true
		}
		f.names[id.Name] = true
		if !ast.IsPropertyName(parent, key) {
			refs = append(refs, id.Name)
		}
		return true
	})
	f.globals = map[string]bool{}
	for _, name := range refs {
		if !declared[name] {
			f.globals[name] = true
		}
	}
}

// GenerateUID returns an identifier name derived from name that no other
// identifier in the file uses: _name, then _name2, _name3, and so on.
func (f *File) GenerateUID(name string) string {
	f.collectNames()
	base := strings.TrimLeft(toIdentifier(name), "_")
	base = strings.TrimRight(base, "0123456789")
	if base == "" {
		base = "temp"
	}
	for i := 0; ; i++ {
		uid := "_" + base
		if i > 1 {
			uid += strconv.Itoa(i)
		}
		if !f.names[uid] {
			f.names[uid] = true
			return uid
		}
	}
}

// IsGlobal reports whether name is referenced in the file without ever being
// declared, as with console or window.
func (f *File) IsGlobal(name string) bool {
	f.collectNames()
	return f.globals[name]
}

// HasName reports whether any identifier in the file is spelled name.
func (f *File) HasName(name string) bool {
	f.collectNames()
	return f.names[name]
}

// Helper returns the identifier bound to a runtime helper, declaring it with
// build on first use. The declaration is hoisted with HoistHelpers.
func (f *File) Helper(name string, build func(id *ast.Identifier) ast.Node) *ast.Identifier {
	if id, ok := f.helpers[name]; ok {
		return ast.NewIdentifier(id.Name)
	}
	id := ast.NewIdentifier(f.GenerateUID(name))
	f.helpers[name] = id
	f.Hoist(HoistHelpers, build(id))
	return ast.NewIdentifier(id.Name)
}

// Hoist queues statements for the top of the program. They are not visited;
// FlushHoisted places them once the traversal is over.
func (f *File) Hoist(priority int, nodes ...ast.Node) {
	for _, n := range nodes {
		f.hoisted = append(f.hoisted, hoisted{priority: priority, node: n})
	}
}

// FlushHoisted moves queued statements to the start of the program body,
// highest priority first and in queue order within a priority.
func (f *File) FlushHoisted() {
	if len(f.hoisted) == 0 {
		return
	}
	sort.SliceStable(f.hoisted, func(i, j int) bool { return f.hoisted[i].priority > f.hoisted[j].priority })
	body := make([]ast.Node, 0, len(f.hoisted)+len(f.Program.Body))
	for _, h := range f.hoisted {
		body = append(body, h.node)
	}
	f.Program.Body = append(body, f.Program.Body...)
	f.hoisted = nil
}

// Mark tags n so a later plugin can tell how it came to be.
func (f *File) Mark(n ast.Node, tag string) {
	if f.marks == nil {
		f.marks = map[ast.Node]map[string]bool{}
	}
	if f.marks[n] == nil {
		f.marks[n] = map[string]bool{}
	}
	f.marks[n][tag] = true
}

// Marked reports whether Mark tagged n with tag.
func (f *File) Marked(n ast.Node, tag string) bool {
	return f.marks[n][tag]
}

// HelperNames lists the helpers declared so far, keyed by helper name.
func (f *File) HelperNames() map[string]string {
	out := make(map[string]string, len(f.helpers))
	for k, id := range f.helpers {
		out[k] = id.Name
	}
	return out
}

func toIdentifier(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if upper && r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			upper = false
			b.WriteRune(r)
		default:
			upper = b.Len() > 0
		}
	}
	return b.String()
}

// Pass is one plugin's view of a traversal: its options and private state.
type Pass struct {
	Plugin *Plugin
	Opts   map[string]any
	File   *File

	data map[string]any
}

// Key is the plugin name the pass belongs to.
func (p *Pass) Key() string {
	return p.Plugin.Name
}

// Set stores plugin state for the duration of the traversal.
func (p *Pass) Set(key string, v any) {
	if p.data == nil {
		p.data = map[string]any{}
	}
	p.data[key] = v
}

// Get returns plugin state stored with Set.
func (p *Pass) Get(key string) any {
	return p.data[key]
}

// OptBool reads a boolean plugin option. Missing or non-boolean values yield def.
func (p *Pass) OptBool(name string, def bool) bool {
	if v, ok := p.Opts[name].(bool); ok {
		return v
	}
	return def
}

// OptString reads a string plugin option. Missing or non-string values yield def.
func (p *Pass) OptString(name, def string) string {
	if v, ok := p.Opts[name].(string); ok && v != "" {
		return v
	}
	return def
}
