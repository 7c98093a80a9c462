package parser

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Default JSX factories, as in Babel's classic runtime.
const (
	DefaultJSXPragma     = "React.createElement"
	DefaultJSXPragmaFrag = "React.Fragment"
)

// lowerJSX rewrites JSX elements into factory calls and leaves everything
// else in place.
func lowerJSX(src string, opts Options) (string, error) {
	pragma := opts.JSXPragma
	if pragma == "" {
		pragma = DefaultJSXPragma
	}
	frag := opts.JSXPragmaFrag
	if frag == "" {
		frag = DefaultJSXPragmaFrag
	}

	result := api.Transform(src, api.TransformOptions{
		Loader:         api.LoaderJSX,
		Target:         api.ESNext,
		Format:         api.FormatDefault,
		JSXFactory:     pragma,
		JSXFragment:    frag,
		JSXSideEffects: true,
		Sourcefile:     opts.filename(),
		LogLevel:       api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		serr := &SyntaxError{Filename: opts.filename(), Line: 1, Message: msg.Text}
		if msg.Location != nil {
			serr.Line = msg.Location.Line
			serr.Column = msg.Location.Column
		}
		return "", serr
	}

	return strings.TrimRight(string(result.Code), "\n"), nil
}
