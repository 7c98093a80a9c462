// Package htmlscript compiles the inline scripts of an HTML page the way
// Babel's standalone build does in the browser: every <script> tagged
// text/babel or text/jsx is compiled and turned into plain JavaScript.
package htmlscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"

	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/registry"
)

// scriptTypes are the script type attributes that mark code to compile.
var scriptTypes = []string{"text/babel", "text/jsx"}

// DefaultPresets apply to scripts without data-presets or data-plugins.
var DefaultPresets = []string{"react", "es2015"}

// Options configure TransformScriptTags.
type Options struct {
	// BaseDir resolves src attributes. External scripts are an error when
	// it is empty.
	BaseDir string
}

// ScriptError is a script that failed to compile.
type ScriptError struct {
	Name string
	Err  error
}

func (e *ScriptError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e *ScriptError) Unwrap() error { return e.Err }

// TransformScriptTags compiles every Babel script of page with b and returns
// the rewritten document. Compiled scripts become text/javascript; their
// data-presets and data-plugins attributes are dropped.
func TransformScriptTags(page string, b *babel.Babel, opts Options) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selector := strings.Join(lo.Map(scriptTypes, func(t string, _ int) string {
		return fmt.Sprintf(`script[type=%q]`, t)
	}), ", ")

	var firstErr error
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		name := scriptName(i)
		code, src, err := scriptSource(s, opts)
		if err != nil {
			firstErr = &ScriptError{Name: name, Err: err}
			return false
		}
		if src != "" {
			name = src
		}

		bopts := scriptOptions(s)
		bopts.Filename = name
		res, err := b.Transform(code, bopts)
		if err != nil {
			firstErr = &ScriptError{Name: name, Err: err}
			return false
		}

		s.SetAttr("type", "text/javascript")
		s.RemoveAttr("data-presets")
		s.RemoveAttr("data-plugins")
		s.RemoveAttr("src")
		setScriptText(s, res.Code)
		return true
	})
	if firstErr != nil {
		return "", firstErr
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return out, nil
}

// setScriptText replaces the content of s with code. Script content is raw
// text, so it is stored unescaped.
func setScriptText(s *goquery.Selection, code string) {
	s.Empty()
	for _, n := range s.Nodes {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: code})
	}
}

// scriptName numbers inline scripts from 1.
func scriptName(i int) string {
	if i == 0 {
		return "Inline Babel script"
	}
	return fmt.Sprintf("Inline Babel script (%d)", i+1)
}

func scriptSource(s *goquery.Selection, opts Options) (code, src string, err error) {
	src, ok := s.Attr("src")
	if !ok || src == "" {
		return s.Text(), "", nil
	}
	if opts.BaseDir == "" {
		return "", src, fmt.Errorf("external script %q needs a base directory", src)
	}
	data, err := os.ReadFile(filepath.Join(opts.BaseDir, filepath.FromSlash(src)))
	if err != nil {
		return "", src, err
	}
	return string(data), src, nil
}

func scriptOptions(s *goquery.Selection) babel.Options {
	presets, hasPresets := s.Attr("data-presets")
	plugins, hasPlugins := s.Attr("data-plugins")
	if !hasPresets && !hasPlugins {
		return babel.Options{Presets: named(DefaultPresets)}
	}
	return babel.Options{
		Presets: named(splitList(presets)),
		Plugins: named(splitList(plugins)),
	}
}

func splitList(attr string) []string {
	return lo.Compact(lo.Map(strings.Split(attr, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

func named(names []string) []babel.Item {
	return lo.Map(names, func(n string, _ int) babel.Item { return registry.Named(n) })
}
