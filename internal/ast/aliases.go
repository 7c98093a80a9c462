package ast

import "slices"

// Alias names a group of node kinds that a visitor can target at once.
type Alias = Kind

const (
	AliasFunction          Alias = "Function"
	AliasClass             Alias = "Class"
	AliasLoop              Alias = "Loop"
	AliasFor               Alias = "For"
	AliasLiteral           Alias = "Literal"
	AliasScopable          Alias = "Scopable"
	AliasBlockParent       Alias = "BlockParent"
	AliasModuleDeclaration Alias = "ModuleDeclaration"
	AliasExportDeclaration Alias = "ExportDeclaration"
	AliasPattern           Alias = "Pattern"
	AliasMethod            Alias = "Method"
	AliasStatement         Alias = "Statement"
	AliasExpression        Alias = "Expression"
)

var aliases = map[Alias][]Kind{
	AliasFunction: {
		KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression,
		KindObjectMethod, KindClassMethod,
	},
	AliasClass:  {KindClassDeclaration, KindClassExpression},
	AliasLoop:   {KindForStatement, KindForInStatement, KindForOfStatement, KindWhileStatement, KindDoWhileStatement},
	AliasFor:    {KindForStatement, KindForInStatement, KindForOfStatement},
	AliasMethod: {KindObjectMethod, KindClassMethod},
	AliasLiteral: {
		KindStringLiteral, KindNumericLiteral, KindBooleanLiteral, KindNullLiteral,
		KindRegExpLiteral, KindTemplateLiteral,
	},
	AliasScopable: {
		KindProgram, KindBlockStatement, KindCatchClause, KindSwitchStatement,
		KindForStatement, KindForInStatement, KindForOfStatement,
		KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression,
		KindObjectMethod, KindClassMethod, KindClassDeclaration, KindClassExpression,
	},
	AliasBlockParent: {
		KindProgram, KindBlockStatement, KindCatchClause, KindSwitchStatement,
		KindForStatement, KindForInStatement, KindForOfStatement, KindWhileStatement,
		KindDoWhileStatement, KindFunctionDeclaration, KindFunctionExpression,
		KindArrowFunctionExpression, KindObjectMethod, KindClassMethod,
	},
	AliasModuleDeclaration: {
		KindImportDeclaration, KindExportNamedDeclaration, KindExportDefaultDeclaration,
		KindExportAllDeclaration,
	},
	AliasExportDeclaration: {
		KindExportNamedDeclaration, KindExportDefaultDeclaration, KindExportAllDeclaration,
	},
	AliasPattern: {KindObjectPattern, KindArrayPattern, KindAssignmentPattern, KindRestElement},
	AliasStatement: {
		KindExpressionStatement, KindBlockStatement, KindEmptyStatement, KindDebuggerStatement,
		KindWithStatement, KindReturnStatement, KindLabeledStatement, KindBreakStatement,
		KindContinueStatement, KindIfStatement, KindSwitchStatement, KindThrowStatement,
		KindTryStatement, KindWhileStatement, KindDoWhileStatement, KindForStatement,
		KindForInStatement, KindForOfStatement, KindFunctionDeclaration, KindVariableDeclaration,
		KindClassDeclaration, KindImportDeclaration, KindExportNamedDeclaration,
		KindExportDefaultDeclaration, KindExportAllDeclaration,
	},
	AliasExpression: {
		KindIdentifier, KindStringLiteral, KindNumericLiteral, KindBooleanLiteral, KindNullLiteral,
		KindRegExpLiteral, KindTemplateLiteral, KindTaggedTemplateExpression, KindThisExpression,
		KindSuper, KindArrayExpression, KindObjectExpression, KindFunctionExpression,
		KindArrowFunctionExpression, KindClassExpression, KindUnaryExpression, KindUpdateExpression,
		KindBinaryExpression, KindLogicalExpression, KindAssignmentExpression,
		KindConditionalExpression, KindCallExpression, KindNewExpression, KindMemberExpression,
		KindSequenceExpression, KindYieldExpression, KindAwaitExpression, KindMetaProperty,
	},
}

// Expand resolves a kind or alias to the concrete kinds it covers.
// Unknown names expand to nothing.
func Expand(name Kind) []Kind {
	if kinds, ok := aliases[name]; ok {
		return kinds
	}
	if Known(name) {
		return []Kind{name}
	}
	return nil
}

// Is reports whether n is of the given kind or belongs to the given alias.
func Is(n Node, name Kind) bool {
	if IsNil(n) {
		return false
	}
	if n.Type() == name {
		return true
	}
	return slices.Contains(aliases[name], n.Type())
}

// IsFunction reports whether n introduces a function scope.
func IsFunction(n Node) bool {
	return Is(n, AliasFunction)
}

// IsStatement reports whether n may appear in a statement list.
func IsStatement(n Node) bool { return Is(n, AliasStatement) }

// IsExpression reports whether n is an expression.
func IsExpression(n Node) bool { return Is(n, AliasExpression) }

// IsIdentifier reports whether n is an identifier, optionally with the given name.
func IsIdentifier(n Node, name ...string) bool {
	id, ok := n.(*Identifier)
	if !ok || id == nil {
		return false
	}
	return len(name) == 0 || id.Name == name[0]
}

// FunctionParts exposes the params and body shared by all function kinds.
// Arrow functions with an expression body return a nil block.
func FunctionParts(n Node) (params *[]Node, body *BlockStatement, ok bool) {
	switch fn := n.(type) {
	case *FunctionDeclaration:
		return &fn.Params, fn.Body, true
	case *FunctionExpression:
		return &fn.Params, fn.Body, true
	case *ObjectMethod:
		return &fn.Params, fn.Body, true
	case *ClassMethod:
		return &fn.Params, fn.Body, true
	case *ArrowFunctionExpression:
		block, _ := fn.Body.(*BlockStatement)
		return &fn.Params, block, true
	}
	return nil, nil, false
}
