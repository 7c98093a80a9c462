package plugins

import (
	"fmt"
	"slices"

	"github.com/roach88/babelgo/internal/ast"
	"github.com/roach88/babelgo/internal/traverse"
)

// newBlockScoping turns let and const into var. A block binding whose name
// is already visible from an enclosing scope, or used as a global, is
// renamed first so hoisting it does not change what other code sees.
//
// A loop whose closures capture one of its block bindings gets a fresh
// binding per iteration: the body moves into a _loop function that is
// called with the current values of the loop head bindings.
func newBlockScoping(map[string]any) (*traverse.Plugin, error) {
	return simple(BlockScoping, traverse.Visitor{
		ast.KindVariableDeclaration: traverse.Enter(func(p *traverse.Path, _ *traverse.Pass) error {
			decl := p.Node.(*ast.VariableDeclaration)
			if decl.Kind == "var" {
				return nil
			}
			if !ast.Is(p.Parent, ast.AliasFor) {
				for _, d := range decl.Declarations {
					if d.Init == nil {
						d.Init = ast.NewVoid0()
					}
				}
			}
			decl.Kind = "var"
			return nil
		}),
		ast.KindBlockStatement:   traverse.Enter(renameShadowing),
		ast.KindSwitchStatement:  traverse.Enter(renameShadowing),
		ast.KindForStatement:     {Enter: enterLoop, Exit: wrapCapturedLoop},
		ast.KindForInStatement:   {Enter: enterLoop, Exit: wrapCapturedLoop},
		ast.KindForOfStatement:   {Enter: enterLoop, Exit: wrapCapturedLoop},
		ast.KindWhileStatement:   {Enter: enterLoop, Exit: wrapCapturedLoop},
		ast.KindDoWhileStatement: {Enter: enterLoop, Exit: wrapCapturedLoop},
		ast.KindProgram:          traverse.Exit(remapShadowed),
	}), nil
}

// renameShadowing gives the let and const bindings of a block fresh names
// when an enclosing scope declares the same name or it is a global.
func renameShadowing(p *traverse.Path, pass *traverse.Pass) error {
	// A function body shares its scope with the parameters; its bindings
	// become function-level vars without any conflict.
	if _, ok := p.Node.(*ast.BlockStatement); ok && ast.IsFunction(p.Parent) {
		return nil
	}
	for _, name := range blockBindings(p.Node) {
		if !p.InScope(name) && !pass.File.IsGlobal(name) {
			continue
		}
		traverse.Rename(p.Node, name, pass.File.GenerateUID(name))
	}
	return nil
}

// blockBindings lists the let and const names a block declares.
func blockBindings(n ast.Node) []string {
	var names []string
	collect := func(stmts []ast.Node) {
		for _, s := range stmts {
			if d, ok := s.(*ast.VariableDeclaration); ok && d.Kind != "var" {
				names = append(names, ast.DeclaredNames(d)...)
			}
		}
	}
	switch s := n.(type) {
	case *ast.BlockStatement:
		collect(s.Body)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			collect(c.Consequent)
		}
	case *ast.ForStatement:
		collect([]ast.Node{s.Init})
	case *ast.ForInStatement:
		collect([]ast.Node{s.Left})
	case *ast.ForOfStatement:
		collect([]ast.Node{s.Left})
	}
	return names
}

// capturedLoopsKey holds, per loop whose closures capture a block binding,
// the head bindings the loop body uses.
const capturedLoopsKey = "capturedLoops"

// enterLoop records loops that need a binding per iteration. It runs before
// the head declarations turn into var, while let and const can still be told
// apart.
func enterLoop(p *traverse.Path, pass *traverse.Pass) error {
	if _, ok := p.Node.(*ast.WhileStatement); !ok {
		if _, ok := p.Node.(*ast.DoWhileStatement); !ok {
			if err := renameShadowing(p, pass); err != nil {
				return err
			}
		}
	}
	body := loopBody(p.Node)
	head := blockBindings(p.Node)
	if !capturesBinding(body, append(slices.Clone(head), bodyBindings(body)...)) {
		return nil
	}
	params := []string{}
	for _, name := range head {
		if traverse.References(body, name) {
			params = append(params, name)
		}
	}
	loops, _ := pass.Get(capturedLoopsKey).(map[ast.Node][]string)
	if loops == nil {
		loops = map[ast.Node][]string{}
		pass.Set(capturedLoopsKey, loops)
	}
	loops[p.Node] = params
	return nil
}

// wrapCapturedLoop moves the body of a recorded loop into a _loop function
// declared ahead of the loop. The body has been transformed by then.
func wrapCapturedLoop(p *traverse.Path, pass *traverse.Pass) error {
	loops, _ := pass.Get(capturedLoopsKey).(map[ast.Node][]string)
	params, ok := loops[p.Node]
	if !ok {
		return nil
	}
	delete(loops, p.Node)

	body := loopBody(p.Node)
	if err := checkLoopBody(body, params); err != nil {
		return err
	}
	block, ok := body.(*ast.BlockStatement)
	if !ok {
		block = ast.NewBlock(body)
	}
	continuesToReturns(block)

	name := pass.File.GenerateUID("loop")
	fn := &ast.FunctionExpression{
		ID:     ast.NewIdentifier(name),
		Params: []ast.Node{},
		Body:   block,
		// this and arguments keep pointing at the enclosing function.
		Shadow: true,
	}
	args := make([]ast.Node, len(params))
	for i, param := range params {
		fn.Params = append(fn.Params, ast.NewIdentifier(param))
		args[i] = ast.NewIdentifier(param)
	}
	pass.Set("shadowed", true)
	setLoopBody(p.Node, ast.NewBlock(ast.NewExpressionStatement(ast.NewCall(ast.NewIdentifier(name), args...))))

	decl := ast.NewVar("var", name, fn)
	if p.Listed() {
		return p.InsertBefore(decl)
	}
	return p.ReplaceWith(ast.NewBlock(decl, p.Node))
}

func loopBody(n ast.Node) ast.Node {
	switch s := n.(type) {
	case *ast.ForStatement:
		return s.Body
	case *ast.ForInStatement:
		return s.Body
	case *ast.ForOfStatement:
		return s.Body
	case *ast.WhileStatement:
		return s.Body
	case *ast.DoWhileStatement:
		return s.Body
	}
	return nil
}

func setLoopBody(n, body ast.Node) {
	switch s := n.(type) {
	case *ast.ForStatement:
		s.Body = body
	case *ast.ForInStatement:
		s.Body = body
	case *ast.ForOfStatement:
		s.Body = body
	case *ast.WhileStatement:
		s.Body = body
	case *ast.DoWhileStatement:
		s.Body = body
	}
}

// bodyBindings lists the let and const names declared in a loop body
// outside nested functions.
func bodyBindings(body ast.Node) []string {
	var names []string
	ast.Inspect(body, func(n, _ ast.Node, _ string) bool {
		if ast.IsFunction(n) {
			return false
		}
		if d, ok := n.(*ast.VariableDeclaration); ok && d.Kind != "var" {
			names = append(names, ast.DeclaredNames(d)...)
		}
		return true
	})
	return names
}

// capturesBinding reports whether a function inside body refers to one of
// names.
func capturesBinding(body ast.Node, names []string) bool {
	if len(names) == 0 {
		return false
	}
	found := false
	ast.Inspect(body, func(n, _ ast.Node, _ string) bool {
		if found {
			return false
		}
		if !ast.IsFunction(n) {
			return true
		}
		found = slices.ContainsFunc(names, func(name string) bool {
			return traverse.References(n, name)
		})
		return false
	})
	return found
}

// checkLoopBody rejects loop bodies a _loop function cannot reproduce:
// control flow leaving the loop, suspension, this inside arrows, and writes
// to the head bindings that the next iteration would have to see.
func checkLoopBody(body ast.Node, params []string) error {
	var unsupported string
	fail := func(format string, args ...any) {
		if unsupported == "" {
			unsupported = fmt.Sprintf(format, args...)
		}
	}
	var walk func(n ast.Node, breakable bool, labels []string)
	walk = func(n ast.Node, breakable bool, labels []string) {
		if unsupported != "" || ast.IsNil(n) {
			return
		}
		switch node := n.(type) {
		case *ast.ArrowFunctionExpression:
			if traverse.ContainsThis(node) || traverse.References(node, "arguments") {
				fail("this or arguments inside an arrow function")
			}
			return
		case *ast.ReturnStatement:
			fail("return")
		case *ast.BreakStatement:
			if node.Label != nil && !slices.Contains(labels, node.Label.Name) {
				fail("break %s", node.Label.Name)
			} else if node.Label == nil && !breakable {
				fail("break")
			}
		case *ast.ContinueStatement:
			if node.Label != nil && !slices.Contains(labels, node.Label.Name) {
				fail("continue %s", node.Label.Name)
			}
		case *ast.YieldExpression:
			fail("yield")
		case *ast.AwaitExpression:
			fail("await")
		case *ast.AssignmentExpression:
			if id, ok := node.Left.(*ast.Identifier); ok && slices.Contains(params, id.Name) {
				fail("assignment to %s", id.Name)
			}
		case *ast.UpdateExpression:
			if id, ok := node.Argument.(*ast.Identifier); ok && slices.Contains(params, id.Name) {
				fail("update of %s", id.Name)
			}
		case *ast.LabeledStatement:
			labels = append(slices.Clone(labels), node.Label.Name)
		case *ast.SwitchStatement:
			breakable = true
		}
		if ast.IsFunction(n) {
			return
		}
		if ast.Is(n, ast.AliasLoop) {
			breakable = true
		}
		for _, c := range ast.Children(n) {
			walk(c, breakable, labels)
		}
	}
	walk(body, false, nil)
	if unsupported != "" {
		return fmt.Errorf("%s in a loop whose bindings are captured by a closure is not supported", unsupported)
	}
	return nil
}

// continuesToReturns turns the continue statements of a loop body that
// target the loop itself into returns from the _loop function.
func continuesToReturns(body ast.Node) {
	for _, f := range ast.Fields(body) {
		for i, c := range f.Nodes() {
			if ast.IsNil(c) || ast.IsFunction(c) || ast.Is(c, ast.AliasLoop) {
				continue
			}
			if cs, ok := c.(*ast.ContinueStatement); ok && cs.Label == nil {
				ret := ast.SetSpan(ast.NewReturn(nil), cs)
				if f.List {
					_ = f.SetAt(i, ret)
				} else {
					_ = f.Set(ret)
				}
				continue
			}
			continuesToReturns(c)
		}
	}
}
