package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/roach88/babelgo/internal/ast"
)

// Check is one verification case: an input, a configuration, and the
// expected outcome of compiling the input with that configuration.
type Check struct {
	// Name identifies the check within its suite.
	Name string `yaml:"name"`

	// Description explains what the check verifies.
	Description string `yaml:"description"`

	// Source is the input text. With AST it is the text the tree was parsed
	// from.
	Source     string `yaml:"source,omitempty"`
	SourceFile string `yaml:"source_file,omitempty"`

	// AST is a Babel-shaped syntax tree to compile instead of parsing Source.
	AST     map[string]any `yaml:"ast,omitempty"`
	ASTFile string         `yaml:"ast_file,omitempty"`

	// Options is a Babel options object (presets, plugins, ...).
	Options map[string]any `yaml:"options,omitempty"`

	// Register adds test plugins and presets before the check runs.
	Register *Registration `yaml:"register,omitempty"`

	Expect Expectation `yaml:"expect"`

	// Path is the file the check was loaded from.
	Path string `yaml:"-"`

	tree    ast.Node
	pattern *regexp.Regexp
}

// Registration lists test plugins and presets by name.
type Registration struct {
	Plugins []string `yaml:"plugins,omitempty"`
	Presets []string `yaml:"presets,omitempty"`
}

// Expectation is the outcome a check requires. Exactly one field is set.
type Expectation struct {
	Code  *string `yaml:"code,omitempty"`
	Error string  `yaml:"error,omitempty"`
	Eval  *Eval   `yaml:"eval,omitempty"`
}

// Eval runs the output and compares the value of Expr with Value.
type Eval struct {
	Expr  string `yaml:"expr"`
	Value any    `yaml:"value"`
}

// Tree returns the decoded syntax tree input, or nil for source checks.
func (c *Check) Tree() ast.Node { return c.tree }

// Suite is an ordered set of checks sharing a registry.
type Suite struct {
	Name   string
	Dir    string
	Checks []*Check
}

var checkName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// LoadCheck reads and parses a check YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or fails validation.
func LoadCheck(path string) (*Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read check file: %w", err)
	}

	var c Check
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}
	c.Path = path

	if err := c.resolveInputs(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("invalid check %s: %w", path, err)
	}
	if err := validateCheck(&c); err != nil {
		return nil, fmt.Errorf("invalid check %s: %w", path, err)
	}
	return &c, nil
}

// LoadSuite loads every *.yaml and *.yml check in dir, sorted by file name.
// A single file loads as a suite of one check named after the file.
func LoadSuite(path string) (*Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	if !info.IsDir() {
		c, err := LoadCheck(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return &Suite{Name: name, Dir: filepath.Dir(path), Checks: []*Check{c}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	suite := &Suite{Name: filepath.Base(filepath.Clean(path)), Dir: path}
	seen := map[string]string{}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		file := filepath.Join(path, e.Name())
		c, err := LoadCheck(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate check name %q in %s and %s", c.Name, prev, file)
		}
		seen[c.Name] = file
		suite.Checks = append(suite.Checks, c)
	}
	if len(suite.Checks) == 0 {
		return nil, fmt.Errorf("no checks found in %s", path)
	}
	return suite, nil
}

// resolveInputs reads referenced files and decodes the syntax tree.
func (c *Check) resolveInputs(dir string) error {
	if c.SourceFile != "" {
		if c.Source != "" {
			return fmt.Errorf("source and source_file are mutually exclusive")
		}
		data, err := os.ReadFile(resolvePath(dir, c.SourceFile))
		if err != nil {
			return fmt.Errorf("source_file: %w", err)
		}
		c.Source = string(data)
	}

	var treeJSON []byte
	switch {
	case c.AST != nil && c.ASTFile != "":
		return fmt.Errorf("ast and ast_file are mutually exclusive")
	case c.ASTFile != "":
		data, err := os.ReadFile(resolvePath(dir, c.ASTFile))
		if err != nil {
			return fmt.Errorf("ast_file: %w", err)
		}
		treeJSON = data
	case c.AST != nil:
		data, err := json.Marshal(c.AST)
		if err != nil {
			return fmt.Errorf("ast: %w", err)
		}
		treeJSON = data
	}
	if treeJSON != nil {
		tree, err := ast.Decode(treeJSON)
		if err != nil {
			return fmt.Errorf("ast: %w", err)
		}
		c.tree = tree
	}
	return nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// validateCheck checks that required fields are present and valid.
func validateCheck(c *Check) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !checkName.MatchString(c.Name) {
		return fmt.Errorf("name %q must match %s", c.Name, checkName)
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if c.Source == "" && c.SourceFile == "" && c.tree == nil {
		return fmt.Errorf("one of source, source_file, ast or ast_file is required")
	}

	set := 0
	if c.Expect.Code != nil {
		set++
	}
	if c.Expect.Error != "" {
		set++
		re, err := regexp.Compile(c.Expect.Error)
		if err != nil {
			return fmt.Errorf("expect.error: %w", err)
		}
		c.pattern = re
	}
	if c.Expect.Eval != nil {
		set++
		if c.Expect.Eval.Expr == "" {
			return fmt.Errorf("expect.eval: expr is required")
		}
	}
	if set != 1 {
		return fmt.Errorf("expect: exactly one of code, error or eval is required")
	}

	if c.Register != nil {
		for i, name := range c.Register.Plugins {
			if _, ok := testPlugins[name]; !ok {
				return fmt.Errorf("register.plugins[%d]: unknown test plugin %q, expected one of %v", i, name, sortedKeys(testPlugins))
			}
		}
		for i, name := range c.Register.Presets {
			if _, ok := testPresets[name]; !ok {
				return fmt.Errorf("register.presets[%d]: unknown test preset %q, expected one of %v", i, name, sortedKeys(testPresets))
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
