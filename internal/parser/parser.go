// Package parser turns JavaScript source into the Babel-shaped tree in
// internal/ast.
//
// Parsing is delegated to the sobek ECMAScript parser; its tree is converted
// node by node. JSX, which sobek does not understand, is lowered to plain
// calls with esbuild first when a plugin asks for it.
package parser

import (
	"errors"
	"fmt"
	"strings"

	jsparser "github.com/grafana/sobek/parser"

	"github.com/roach88/babelgo/internal/ast"
)

// Source types accepted by Options.SourceType.
const (
	SourceModule      = "module"
	SourceScript      = "script"
	SourceUnambiguous = "unambiguous"
)

// DefaultFilename names inputs that have no filename, matching Babel.
const DefaultFilename = "unknown"

// Options control a single parse. Plugins adjust them through their
// ManipulateOptions hook before the source is read.
type Options struct {
	SourceType string
	Filename   string

	// JSX enables lowering of JSX syntax before parsing.
	JSX bool
	// JSXPragma and JSXPragmaFrag name the element and fragment factories.
	JSXPragma     string
	JSXPragmaFrag string
}

func (o Options) filename() string {
	if o.Filename == "" {
		return DefaultFilename
	}
	return o.Filename
}

func (o Options) sourceType() string {
	if o.SourceType == "" {
		return SourceModule
	}
	return o.SourceType
}

// SyntaxError reports source that could not be parsed. Line is 1-based and
// Column 0-based, as in Babel's messages.
type SyntaxError struct {
	Filename string
	Line     int
	Column   int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s (%d:%d)", e.Filename, e.Message, e.Line, e.Column)
}

// Parse parses src and returns the program together with the text its
// offsets refer to. The text differs from src only when JSX was lowered.
func Parse(src string, opts Options) (*ast.Program, string, error) {
	code := src
	if opts.JSX {
		lowered, err := lowerJSX(src, opts)
		if err != nil {
			return nil, "", err
		}
		code = lowered
	}

	switch st := opts.sourceType(); st {
	case SourceModule, SourceScript:
		prog, err := parseAs(code, opts.filename(), st)
		if err != nil {
			return nil, "", err
		}
		return prog, code, nil
	case SourceUnambiguous:
		prog, err := parseAs(code, opts.filename(), SourceModule)
		if err == nil && hasModuleSyntax(prog) {
			return prog, code, nil
		}
		prog, scriptErr := parseAs(code, opts.filename(), SourceScript)
		if scriptErr != nil {
			if err != nil {
				return nil, "", err
			}
			return nil, "", scriptErr
		}
		return prog, code, nil
	default:
		return nil, "", fmt.Errorf("invalid sourceType %q: expected module, script, or unambiguous", st)
	}
}

func parseAs(code, filename, sourceType string) (*ast.Program, error) {
	opts := []jsparser.Option{jsparser.WithDisableSourceMaps}
	if sourceType == SourceModule {
		opts = append(opts, jsparser.IsModule)
	}

	prg, err := jsparser.ParseFile(nil, filename, code, 0, opts...)
	if err != nil {
		return nil, syntaxError(filename, err)
	}

	c := &converter{src: code, filename: filename}
	prog := c.program(prg, sourceType)
	if c.err != nil {
		return nil, c.err
	}
	return prog, nil
}

func hasModuleSyntax(prog *ast.Program) bool {
	for _, stmt := range prog.Body {
		if ast.Is(stmt, ast.AliasModuleDeclaration) {
			return true
		}
	}
	return false
}

func syntaxError(filename string, err error) error {
	var list jsparser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return fromParserError(filename, list[0])
	}
	var single *jsparser.Error
	if errors.As(err, &single) {
		return fromParserError(filename, single)
	}
	return &SyntaxError{Filename: filename, Line: 1, Message: err.Error()}
}

func fromParserError(filename string, e *jsparser.Error) *SyntaxError {
	col := e.Position.Column - 1
	if col < 0 {
		col = 0
	}
	line := e.Position.Line
	if line == 0 {
		line = 1
	}
	return &SyntaxError{
		Filename: filename,
		Line:     line,
		Column:   col,
		Message:  strings.TrimSpace(e.Message),
	}
}

// Position converts a byte offset in text to a 1-based line and 0-based column.
func Position(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	line = 1 + strings.Count(text[:offset], "\n")
	col = offset - (strings.LastIndex(text[:offset], "\n") + 1)
	return line, col
}
