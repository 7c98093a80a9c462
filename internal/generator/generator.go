// Package generator prints an ast tree back to JavaScript.
//
// The output follows Babel's generator: two-space indentation, semicolons,
// blank lines carried over from the source between statements that came
// from it, and fixed spacing rules around nodes that plugins synthesized.
package generator

import (
	"sort"
	"strings"

	"github.com/roach88/babelgo/internal/ast"
)

// Options control code generation.
type Options struct {
	// Code is the text that node spans index. It feeds source maps and,
	// with RetainLines, the blank-line layout of the output.
	Code string

	// RetainLines keeps the blank lines between source statements. Without
	// it every node is laid out as if synthesized.
	RetainLines bool

	// SourceMaps requests a version 3 source map.
	SourceMaps bool

	// SourceFileName names the original file in the map.
	SourceFileName string
}

// Result is the generated code and, when requested, its source map.
type Result struct {
	Code string
	Map  *SourceMap
}

// Generate prints the tree rooted at n.
func Generate(n ast.Node, opts Options) *Result {
	p := &printer{quote: '"'}
	if opts.RetainLines && opts.Code != "" {
		p.ws = newWhitespace(opts.Code)
		p.quote = commonQuote(n)
	}
	if opts.SourceMaps {
		p.maps = newMapper(opts.Code)
	}

	p.print(n, nil)

	res := &Result{Code: strings.TrimRight(string(p.out), " \t\n")}
	if p.maps != nil {
		name := opts.SourceFileName
		if name == "" {
			name = "unknown"
		}
		res.Map = p.maps.sourceMap(name, opts.Code)
	}
	return res
}

type printer struct {
	out     []byte
	line    int
	col     int
	indent  int
	concise bool

	endsWord bool
	endsInt  bool

	stack   []ast.Node
	forInit int

	ws    *whitespace
	quote byte
	maps  *mapper
}

func (p *printer) endsWith(s string) bool {
	return strings.HasSuffix(string(p.out[max(0, len(p.out)-len(s)):]), s)
}

func (p *printer) write(s string) {
	p.out = append(p.out, s...)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.line += strings.Count(s, "\n")
		p.col = len(s) - i - 1
	} else {
		p.col += len(s)
	}
}

func (p *printer) trimLast() {
	last := p.out[len(p.out)-1]
	p.out = p.out[:len(p.out)-1]
	if last != '\n' {
		p.col--
		return
	}
	p.line--
	p.col = len(p.out) - (strings.LastIndexByte(string(p.out), '\n') + 1)
}

func (p *printer) append(s string) {
	if s == "" {
		return
	}
	if s[0] != '\n' && p.indent > 0 && len(p.out) > 0 && p.out[len(p.out)-1] == '\n' {
		p.write(strings.Repeat("  ", p.indent))
	}
	if p.maps != nil && strings.TrimLeft(s, " ") != "" {
		p.maps.resolve(p.line, p.col+len(s)-len(strings.TrimLeft(s, " ")))
	}
	p.write(s)
	p.endsWord = false
	p.endsInt = false
}

func (p *printer) forceSpace() {
	p.append(" ")
}

func (p *printer) space() {
	if len(p.out) > 0 && !p.endsWith(" ") && !p.endsWith("\n") {
		p.forceSpace()
	}
}

func (p *printer) word(s string) {
	if p.endsWord || (p.endsWith("/") && strings.HasPrefix(s, "/")) {
		p.forceSpace()
	}
	p.append(s)
	p.endsWord = true
}

func (p *printer) number(s string) {
	p.word(s)
	p.endsInt = isDecimalInteger(s)
}

func (p *printer) token(s string) {
	if (s == "--" && p.endsWith("!")) ||
		(strings.HasPrefix(s, "+") && p.endsWith("+")) ||
		(strings.HasPrefix(s, "-") && p.endsWith("-")) ||
		(strings.HasPrefix(s, ".") && p.endsInt) {
		p.forceSpace()
	}
	p.append(s)
}

func (p *printer) semicolon() { p.append(";") }

func (p *printer) newline(i int) {
	if i <= 0 {
		return
	}
	if p.concise {
		p.space()
		return
	}
	if len(p.out) == 0 || p.endsWith("\n\n") {
		return
	}
	i = min(i, 2)
	if p.endsWith("{\n") || p.endsWith(":\n") {
		i--
	}
	for range i {
		if p.endsWith("\n\n") {
			return
		}
		for len(p.out) > 0 && p.out[len(p.out)-1] == ' ' {
			p.trimLast()
		}
		p.write("\n")
	}
}

func (p *printer) removeTrailingNewline() {
	if len(p.out) > 0 && p.out[len(p.out)-1] == '\n' {
		p.trimLast()
	}
}

func (p *printer) print(n, parent ast.Node) {
	if ast.IsNil(n) {
		return
	}
	oldConcise := p.concise
	if fd, ok := n.(*ast.FunctionDeclaration); ok && fd.Compact {
		p.concise = true
	}
	p.stack = append(p.stack, n)

	parens := needsParens(n, parent, p.stack)
	if parens {
		p.token("(")
	}
	if p.maps != nil && ast.HasSpan(n) {
		start, _ := ast.Span(n)
		p.maps.mark(start)
	}
	p.printNode(n, parent)
	if parens {
		p.token(")")
	}

	p.stack = p.stack[:len(p.stack)-1]
	p.concise = oldConcise
}

// printSequence prints statement-like nodes one per line, reproducing the
// source's blank lines for nodes that have a span.
func (p *printer) printSequence(nodes []ast.Node, parent ast.Node, indent bool, addNewlines func(leading bool, n ast.Node) int) {
	p.printJoin(nodes, parent, joinOpts{indent: indent, statement: true, addNewlines: addNewlines})
}

type joinOpts struct {
	indent      bool
	statement   bool
	separator   func()
	addNewlines func(leading bool, n ast.Node) int
}

func (p *printer) printJoin(nodes []ast.Node, parent ast.Node, opts joinOpts) {
	if len(nodes) == 0 {
		return
	}
	if opts.indent {
		p.indent++
	}
	for i, n := range nodes {
		if ast.IsNil(n) {
			continue
		}
		if opts.statement {
			p.printNewline(true, n, parent, opts.addNewlines)
		}
		p.print(n, parent)
		if opts.separator != nil && i < len(nodes)-1 {
			opts.separator()
		}
		if opts.statement {
			p.printNewline(false, n, parent, opts.addNewlines)
		}
	}
	if opts.indent {
		p.indent--
	}
}

func (p *printer) printList(nodes []ast.Node, parent ast.Node) {
	p.printJoin(nodes, parent, joinOpts{separator: p.commaSeparator})
}

func (p *printer) commaSeparator() {
	p.token(",")
	p.space()
}

func (p *printer) printNewline(leading bool, n, parent ast.Node, addNewlines func(bool, ast.Node) int) {
	if p.concise {
		p.space()
		return
	}
	lines := 0
	if p.ws != nil && ast.HasSpan(n) {
		if leading {
			lines = p.ws.before(n)
		} else {
			lines = p.ws.after(n)
		}
	} else {
		if !leading {
			lines++
		}
		if addNewlines != nil {
			lines += addNewlines(leading, n)
		}
		before, after := needsWhitespace(n, parent)
		if (leading && before) || (!leading && after) {
			lines++
		}
		if len(p.out) == 0 {
			lines = 0
		}
	}
	p.newline(lines)
}

// commonQuote picks the quote style most of the first three source strings use.
func commonQuote(root ast.Node) byte {
	type raw struct {
		start int
		quote byte
	}
	var raws []raw
	ast.Inspect(root, func(n, _ ast.Node, _ string) bool {
		var text string
		switch lit := n.(type) {
		case *ast.StringLiteral:
			text = lit.Raw
		case *ast.DirectiveLiteral:
			text = lit.Raw
		}
		if text != "" && ast.HasSpan(n) {
			start, _ := ast.Span(n)
			raws = append(raws, raw{start: start, quote: text[0]})
		}
		return true
	})
	sort.Slice(raws, func(i, j int) bool { return raws[i].start < raws[j].start })

	single, double := 0, 0
	for i, r := range raws {
		if i == 3 {
			break
		}
		if r.quote == '\'' {
			single++
		} else {
			double++
		}
	}
	if single > double {
		return '\''
	}
	return '"'
}
