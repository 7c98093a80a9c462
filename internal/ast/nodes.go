package ast

// Node kinds.
const (
	KindProgram                  Kind = "Program"
	KindDirective                Kind = "Directive"
	KindDirectiveLiteral         Kind = "DirectiveLiteral"
	KindExpressionStatement      Kind = "ExpressionStatement"
	KindBlockStatement           Kind = "BlockStatement"
	KindEmptyStatement           Kind = "EmptyStatement"
	KindDebuggerStatement        Kind = "DebuggerStatement"
	KindWithStatement            Kind = "WithStatement"
	KindReturnStatement          Kind = "ReturnStatement"
	KindLabeledStatement         Kind = "LabeledStatement"
	KindBreakStatement           Kind = "BreakStatement"
	KindContinueStatement        Kind = "ContinueStatement"
	KindIfStatement              Kind = "IfStatement"
	KindSwitchStatement          Kind = "SwitchStatement"
	KindSwitchCase               Kind = "SwitchCase"
	KindThrowStatement           Kind = "ThrowStatement"
	KindTryStatement             Kind = "TryStatement"
	KindCatchClause              Kind = "CatchClause"
	KindWhileStatement           Kind = "WhileStatement"
	KindDoWhileStatement         Kind = "DoWhileStatement"
	KindForStatement             Kind = "ForStatement"
	KindForInStatement           Kind = "ForInStatement"
	KindForOfStatement           Kind = "ForOfStatement"
	KindFunctionDeclaration      Kind = "FunctionDeclaration"
	KindVariableDeclaration      Kind = "VariableDeclaration"
	KindVariableDeclarator       Kind = "VariableDeclarator"
	KindClassDeclaration         Kind = "ClassDeclaration"
	KindImportDeclaration        Kind = "ImportDeclaration"
	KindImportSpecifier          Kind = "ImportSpecifier"
	KindImportDefaultSpecifier   Kind = "ImportDefaultSpecifier"
	KindImportNamespaceSpecifier Kind = "ImportNamespaceSpecifier"
	KindExportNamedDeclaration   Kind = "ExportNamedDeclaration"
	KindExportSpecifier          Kind = "ExportSpecifier"
	KindExportNamespaceSpecifier Kind = "ExportNamespaceSpecifier"
	KindExportDefaultDeclaration Kind = "ExportDefaultDeclaration"
	KindExportAllDeclaration     Kind = "ExportAllDeclaration"

	KindIdentifier               Kind = "Identifier"
	KindPrivateName              Kind = "PrivateName"
	KindStringLiteral            Kind = "StringLiteral"
	KindNumericLiteral           Kind = "NumericLiteral"
	KindBooleanLiteral           Kind = "BooleanLiteral"
	KindNullLiteral              Kind = "NullLiteral"
	KindRegExpLiteral            Kind = "RegExpLiteral"
	KindTemplateLiteral          Kind = "TemplateLiteral"
	KindTemplateElement          Kind = "TemplateElement"
	KindTaggedTemplateExpression Kind = "TaggedTemplateExpression"
	KindThisExpression           Kind = "ThisExpression"
	KindSuper                    Kind = "Super"
	KindArrayExpression          Kind = "ArrayExpression"
	KindObjectExpression         Kind = "ObjectExpression"
	KindObjectProperty           Kind = "ObjectProperty"
	KindObjectMethod             Kind = "ObjectMethod"
	KindSpreadElement            Kind = "SpreadElement"
	KindRestElement              Kind = "RestElement"
	KindFunctionExpression       Kind = "FunctionExpression"
	KindArrowFunctionExpression  Kind = "ArrowFunctionExpression"
	KindClassExpression          Kind = "ClassExpression"
	KindClassBody                Kind = "ClassBody"
	KindClassMethod              Kind = "ClassMethod"
	KindClassProperty            Kind = "ClassProperty"
	KindUnaryExpression          Kind = "UnaryExpression"
	KindUpdateExpression         Kind = "UpdateExpression"
	KindBinaryExpression         Kind = "BinaryExpression"
	KindLogicalExpression        Kind = "LogicalExpression"
	KindAssignmentExpression     Kind = "AssignmentExpression"
	KindConditionalExpression    Kind = "ConditionalExpression"
	KindCallExpression           Kind = "CallExpression"
	KindNewExpression            Kind = "NewExpression"
	KindMemberExpression         Kind = "MemberExpression"
	KindSequenceExpression       Kind = "SequenceExpression"
	KindYieldExpression          Kind = "YieldExpression"
	KindAwaitExpression          Kind = "AwaitExpression"
	KindMetaProperty             Kind = "MetaProperty"
	KindObjectPattern            Kind = "ObjectPattern"
	KindArrayPattern             Kind = "ArrayPattern"
	KindAssignmentPattern        Kind = "AssignmentPattern"
)

// Program is the root of every tree.
type Program struct {
	Base
	Directives []*Directive `json:"directives"`
	Body       []Node       `json:"body"`
	SourceType string       `json:"sourceType"`
}

// Directive is a prologue entry such as "use strict".
type Directive struct {
	Base
	Value *DirectiveLiteral `json:"value"`
}

type DirectiveLiteral struct {
	Base
	Value string `json:"value"`
	Raw   string `json:"extra.raw,omitempty"`
}

type ExpressionStatement struct {
	Base
	Expression Node `json:"expression"`
}

type BlockStatement struct {
	Base
	Directives []*Directive `json:"directives"`
	Body       []Node       `json:"body"`
}

type EmptyStatement struct{ Base }

type DebuggerStatement struct{ Base }

type WithStatement struct {
	Base
	Object Node `json:"object"`
	Body   Node `json:"body"`
}

type ReturnStatement struct {
	Base
	Argument Node `json:"argument"`
}

type LabeledStatement struct {
	Base
	Label *Identifier `json:"label"`
	Body  Node        `json:"body"`
}

type BreakStatement struct {
	Base
	Label *Identifier `json:"label"`
}

type ContinueStatement struct {
	Base
	Label *Identifier `json:"label"`
}

type IfStatement struct {
	Base
	Test       Node `json:"test"`
	Consequent Node `json:"consequent"`
	Alternate  Node `json:"alternate"`
}

type SwitchStatement struct {
	Base
	Discriminant Node          `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

// SwitchCase is a case clause; Test is nil for default.
type SwitchCase struct {
	Base
	Test       Node   `json:"test"`
	Consequent []Node `json:"consequent"`
}

type ThrowStatement struct {
	Base
	Argument Node `json:"argument"`
}

type TryStatement struct {
	Base
	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`
	Finalizer *BlockStatement `json:"finalizer"`
}

type CatchClause struct {
	Base
	Param Node            `json:"param"`
	Body  *BlockStatement `json:"body"`
}

type WhileStatement struct {
	Base
	Test Node `json:"test"`
	Body Node `json:"body"`
}

type DoWhileStatement struct {
	Base
	Test Node `json:"test"`
	Body Node `json:"body"`
}

type ForStatement struct {
	Base
	Init   Node `json:"init"`
	Test   Node `json:"test"`
	Update Node `json:"update"`
	Body   Node `json:"body"`
}

type ForInStatement struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
	Body  Node `json:"body"`
}

type ForOfStatement struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
	Body  Node `json:"body"`
	Await bool `json:"await"`
}

// FunctionDeclaration with Compact set prints on a single line; injected
// runtime helpers use it.
type FunctionDeclaration struct {
	Base
	ID        *Identifier     `json:"id"`
	Params    []Node          `json:"params"`
	Body      *BlockStatement `json:"body"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
	Compact   bool            `json:"-"`
}

// VariableDeclaration holds one or more declarators; Kind is var, let, or const.
type VariableDeclaration struct {
	Base
	Declarations []*VariableDeclarator `json:"declarations"`
	Kind         string                `json:"kind"`
}

type VariableDeclarator struct {
	Base
	ID   Node `json:"id"`
	Init Node `json:"init"`
}

type ClassDeclaration struct {
	Base
	ID         *Identifier `json:"id"`
	SuperClass Node        `json:"superClass"`
	Body       *ClassBody  `json:"body"`
}

type ImportDeclaration struct {
	Base
	Specifiers []Node         `json:"specifiers"`
	Source     *StringLiteral `json:"source"`
}

type ImportSpecifier struct {
	Base
	Local    *Identifier `json:"local"`
	Imported *Identifier `json:"imported"`
}

type ImportDefaultSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ImportNamespaceSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ExportNamedDeclaration struct {
	Base
	Declaration Node           `json:"declaration"`
	Specifiers  []Node         `json:"specifiers"`
	Source      *StringLiteral `json:"source"`
}

type ExportSpecifier struct {
	Base
	Local    *Identifier `json:"local"`
	Exported *Identifier `json:"exported"`
}

type ExportNamespaceSpecifier struct {
	Base
	Exported *Identifier `json:"exported"`
}

type ExportDefaultDeclaration struct {
	Base
	Declaration Node `json:"declaration"`
}

type ExportAllDeclaration struct {
	Base
	Source *StringLiteral `json:"source"`
}

type Identifier struct {
	Base
	Name string `json:"name"`
}

type PrivateName struct {
	Base
	ID *Identifier `json:"id"`
}

// StringLiteral keeps the source spelling in Raw; the generator prints Raw
// when set so quotes and escapes survive a round trip.
type StringLiteral struct {
	Base
	Value string `json:"value"`
	Raw   string `json:"extra.raw,omitempty"`
}

type NumericLiteral struct {
	Base
	Value float64 `json:"value"`
	Raw   string  `json:"extra.raw,omitempty"`
}

type BooleanLiteral struct {
	Base
	Value bool `json:"value"`
}

type NullLiteral struct{ Base }

type RegExpLiteral struct {
	Base
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

type TemplateLiteral struct {
	Base
	Quasis      []*TemplateElement `json:"quasis"`
	Expressions []Node             `json:"expressions"`
}

// TemplateValue is the raw and cooked text of a template chunk.
type TemplateValue struct {
	Raw    string `json:"raw"`
	Cooked string `json:"cooked"`
}

type TemplateElement struct {
	Base
	Value TemplateValue `json:"value"`
	Tail  bool          `json:"tail"`
}

type TaggedTemplateExpression struct {
	Base
	Tag   Node             `json:"tag"`
	Quasi *TemplateLiteral `json:"quasi"`
}

type ThisExpression struct{ Base }

type Super struct{ Base }

// ArrayExpression elements may be nil for holes.
type ArrayExpression struct {
	Base
	Elements []Node `json:"elements"`
}

type ObjectExpression struct {
	Base
	Properties []Node `json:"properties"`
}

type ObjectProperty struct {
	Base
	Key       Node `json:"key"`
	Value     Node `json:"value"`
	Computed  bool `json:"computed"`
	Shorthand bool `json:"shorthand"`
}

// ObjectMethod is a method, getter, or setter in an object literal.
type ObjectMethod struct {
	Base
	Kind      string          `json:"kind"`
	Key       Node            `json:"key"`
	Params    []Node          `json:"params"`
	Body      *BlockStatement `json:"body"`
	Computed  bool            `json:"computed"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
}

type SpreadElement struct {
	Base
	Argument Node `json:"argument"`
}

type RestElement struct {
	Base
	Argument Node `json:"argument"`
}

type FunctionExpression struct {
	Base
	ID        *Identifier     `json:"id"`
	Params    []Node          `json:"params"`
	Body      *BlockStatement `json:"body"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`

	// Shadow marks a function converted from an arrow. Its this and
	// arguments still belong to the enclosing scope.
	Shadow bool `json:"-"`
}

// ArrowFunctionExpression has either a *BlockStatement body or an
// expression body (Expression is true).
type ArrowFunctionExpression struct {
	Base
	Params     []Node `json:"params"`
	Body       Node   `json:"body"`
	Async      bool   `json:"async"`
	Expression bool   `json:"expression"`
}

type ClassExpression struct {
	Base
	ID         *Identifier `json:"id"`
	SuperClass Node        `json:"superClass"`
	Body       *ClassBody  `json:"body"`
}

type ClassBody struct {
	Base
	Body []Node `json:"body"`
}

// ClassMethod Kind is constructor, method, get, or set.
type ClassMethod struct {
	Base
	Kind      string          `json:"kind"`
	Key       Node            `json:"key"`
	Params    []Node          `json:"params"`
	Body      *BlockStatement `json:"body"`
	Computed  bool            `json:"computed"`
	Static    bool            `json:"static"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
}

type ClassProperty struct {
	Base
	Key      Node `json:"key"`
	Value    Node `json:"value"`
	Computed bool `json:"computed"`
	Static   bool `json:"static"`
}

type UnaryExpression struct {
	Base
	Operator string `json:"operator"`
	Argument Node   `json:"argument"`
	Prefix   bool   `json:"prefix"`
}

type UpdateExpression struct {
	Base
	Operator string `json:"operator"`
	Argument Node   `json:"argument"`
	Prefix   bool   `json:"prefix"`
}

type BinaryExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

type LogicalExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

type AssignmentExpression struct {
	Base
	Operator string `json:"operator"`
	Left     Node   `json:"left"`
	Right    Node   `json:"right"`
}

type ConditionalExpression struct {
	Base
	Test       Node `json:"test"`
	Consequent Node `json:"consequent"`
	Alternate  Node `json:"alternate"`
}

// CallExpression with Optional set prints as callee?.(args).
type CallExpression struct {
	Base
	Callee    Node   `json:"callee"`
	Arguments []Node `json:"arguments"`
	Optional  bool   `json:"optional"`
}

type NewExpression struct {
	Base
	Callee    Node   `json:"callee"`
	Arguments []Node `json:"arguments"`
}

type MemberExpression struct {
	Base
	Object   Node `json:"object"`
	Property Node `json:"property"`
	Computed bool `json:"computed"`
	Optional bool `json:"optional"`
}

type SequenceExpression struct {
	Base
	Expressions []Node `json:"expressions"`
}

type YieldExpression struct {
	Base
	Argument Node `json:"argument"`
	Delegate bool `json:"delegate"`
}

type AwaitExpression struct {
	Base
	Argument Node `json:"argument"`
}

type MetaProperty struct {
	Base
	Meta     *Identifier `json:"meta"`
	Property *Identifier `json:"property"`
}

type ObjectPattern struct {
	Base
	Properties []Node `json:"properties"`
}

// ArrayPattern elements may be nil for elisions.
type ArrayPattern struct {
	Base
	Elements []Node `json:"elements"`
}

type AssignmentPattern struct {
	Base
	Left  Node `json:"left"`
	Right Node `json:"right"`
}

func (*Program) Type() Kind                  { return KindProgram }
func (*Directive) Type() Kind                { return KindDirective }
func (*DirectiveLiteral) Type() Kind         { return KindDirectiveLiteral }
func (*ExpressionStatement) Type() Kind      { return KindExpressionStatement }
func (*BlockStatement) Type() Kind           { return KindBlockStatement }
func (*EmptyStatement) Type() Kind           { return KindEmptyStatement }
func (*DebuggerStatement) Type() Kind        { return KindDebuggerStatement }
func (*WithStatement) Type() Kind            { return KindWithStatement }
func (*ReturnStatement) Type() Kind          { return KindReturnStatement }
func (*LabeledStatement) Type() Kind         { return KindLabeledStatement }
func (*BreakStatement) Type() Kind           { return KindBreakStatement }
func (*ContinueStatement) Type() Kind        { return KindContinueStatement }
func (*IfStatement) Type() Kind              { return KindIfStatement }
func (*SwitchStatement) Type() Kind          { return KindSwitchStatement }
func (*SwitchCase) Type() Kind               { return KindSwitchCase }
func (*ThrowStatement) Type() Kind           { return KindThrowStatement }
func (*TryStatement) Type() Kind             { return KindTryStatement }
func (*CatchClause) Type() Kind              { return KindCatchClause }
func (*WhileStatement) Type() Kind           { return KindWhileStatement }
func (*DoWhileStatement) Type() Kind         { return KindDoWhileStatement }
func (*ForStatement) Type() Kind             { return KindForStatement }
func (*ForInStatement) Type() Kind           { return KindForInStatement }
func (*ForOfStatement) Type() Kind           { return KindForOfStatement }
func (*FunctionDeclaration) Type() Kind      { return KindFunctionDeclaration }
func (*VariableDeclaration) Type() Kind      { return KindVariableDeclaration }
func (*VariableDeclarator) Type() Kind       { return KindVariableDeclarator }
func (*ClassDeclaration) Type() Kind         { return KindClassDeclaration }
func (*ImportDeclaration) Type() Kind        { return KindImportDeclaration }
func (*ImportSpecifier) Type() Kind          { return KindImportSpecifier }
func (*ImportDefaultSpecifier) Type() Kind   { return KindImportDefaultSpecifier }
func (*ImportNamespaceSpecifier) Type() Kind { return KindImportNamespaceSpecifier }
func (*ExportNamedDeclaration) Type() Kind   { return KindExportNamedDeclaration }
func (*ExportSpecifier) Type() Kind          { return KindExportSpecifier }
func (*ExportNamespaceSpecifier) Type() Kind { return KindExportNamespaceSpecifier }
func (*ExportDefaultDeclaration) Type() Kind { return KindExportDefaultDeclaration }
func (*ExportAllDeclaration) Type() Kind     { return KindExportAllDeclaration }
func (*Identifier) Type() Kind               { return KindIdentifier }
func (*PrivateName) Type() Kind              { return KindPrivateName }
func (*StringLiteral) Type() Kind            { return KindStringLiteral }
func (*NumericLiteral) Type() Kind           { return KindNumericLiteral }
func (*BooleanLiteral) Type() Kind           { return KindBooleanLiteral }
func (*NullLiteral) Type() Kind              { return KindNullLiteral }
func (*RegExpLiteral) Type() Kind            { return KindRegExpLiteral }
func (*TemplateLiteral) Type() Kind          { return KindTemplateLiteral }
func (*TemplateElement) Type() Kind          { return KindTemplateElement }
func (*TaggedTemplateExpression) Type() Kind { return KindTaggedTemplateExpression }
func (*ThisExpression) Type() Kind           { return KindThisExpression }
func (*Super) Type() Kind                    { return KindSuper }
func (*ArrayExpression) Type() Kind          { return KindArrayExpression }
func (*ObjectExpression) Type() Kind         { return KindObjectExpression }
func (*ObjectProperty) Type() Kind           { return KindObjectProperty }
func (*ObjectMethod) Type() Kind             { return KindObjectMethod }
func (*SpreadElement) Type() Kind            { return KindSpreadElement }
func (*RestElement) Type() Kind              { return KindRestElement }
func (*FunctionExpression) Type() Kind       { return KindFunctionExpression }
func (*ArrowFunctionExpression) Type() Kind  { return KindArrowFunctionExpression }
func (*ClassExpression) Type() Kind          { return KindClassExpression }
func (*ClassBody) Type() Kind                { return KindClassBody }
func (*ClassMethod) Type() Kind              { return KindClassMethod }
func (*ClassProperty) Type() Kind            { return KindClassProperty }
func (*UnaryExpression) Type() Kind          { return KindUnaryExpression }
func (*UpdateExpression) Type() Kind         { return KindUpdateExpression }
func (*BinaryExpression) Type() Kind         { return KindBinaryExpression }
func (*LogicalExpression) Type() Kind        { return KindLogicalExpression }
func (*AssignmentExpression) Type() Kind     { return KindAssignmentExpression }
func (*ConditionalExpression) Type() Kind    { return KindConditionalExpression }
func (*CallExpression) Type() Kind           { return KindCallExpression }
func (*NewExpression) Type() Kind            { return KindNewExpression }
func (*MemberExpression) Type() Kind         { return KindMemberExpression }
func (*SequenceExpression) Type() Kind       { return KindSequenceExpression }
func (*YieldExpression) Type() Kind          { return KindYieldExpression }
func (*AwaitExpression) Type() Kind          { return KindAwaitExpression }
func (*MetaProperty) Type() Kind             { return KindMetaProperty }
func (*ObjectPattern) Type() Kind            { return KindObjectPattern }
func (*ArrayPattern) Type() Kind             { return KindArrayPattern }
func (*AssignmentPattern) Type() Kind        { return KindAssignmentPattern }

// prototypes lists every node type; the reflection tables in walk.go and the
// decoder are built from it.
var prototypes = []Node{
	(*Program)(nil), (*Directive)(nil), (*DirectiveLiteral)(nil),
	(*ExpressionStatement)(nil), (*BlockStatement)(nil), (*EmptyStatement)(nil),
	(*DebuggerStatement)(nil), (*WithStatement)(nil), (*ReturnStatement)(nil),
	(*LabeledStatement)(nil), (*BreakStatement)(nil), (*ContinueStatement)(nil),
	(*IfStatement)(nil), (*SwitchStatement)(nil), (*SwitchCase)(nil),
	(*ThrowStatement)(nil), (*TryStatement)(nil), (*CatchClause)(nil),
	(*WhileStatement)(nil), (*DoWhileStatement)(nil), (*ForStatement)(nil),
	(*ForInStatement)(nil), (*ForOfStatement)(nil), (*FunctionDeclaration)(nil),
	(*VariableDeclaration)(nil), (*VariableDeclarator)(nil), (*ClassDeclaration)(nil),
	(*ImportDeclaration)(nil), (*ImportSpecifier)(nil), (*ImportDefaultSpecifier)(nil),
	(*ImportNamespaceSpecifier)(nil), (*ExportNamedDeclaration)(nil), (*ExportSpecifier)(nil),
	(*ExportNamespaceSpecifier)(nil), (*ExportDefaultDeclaration)(nil), (*ExportAllDeclaration)(nil),
	(*Identifier)(nil), (*PrivateName)(nil), (*StringLiteral)(nil),
	(*NumericLiteral)(nil), (*BooleanLiteral)(nil), (*NullLiteral)(nil),
	(*RegExpLiteral)(nil), (*TemplateLiteral)(nil), (*TemplateElement)(nil),
	(*TaggedTemplateExpression)(nil), (*ThisExpression)(nil), (*Super)(nil),
	(*ArrayExpression)(nil), (*ObjectExpression)(nil), (*ObjectProperty)(nil),
	(*ObjectMethod)(nil), (*SpreadElement)(nil), (*RestElement)(nil),
	(*FunctionExpression)(nil), (*ArrowFunctionExpression)(nil), (*ClassExpression)(nil),
	(*ClassBody)(nil), (*ClassMethod)(nil), (*ClassProperty)(nil),
	(*UnaryExpression)(nil), (*UpdateExpression)(nil), (*BinaryExpression)(nil),
	(*LogicalExpression)(nil), (*AssignmentExpression)(nil), (*ConditionalExpression)(nil),
	(*CallExpression)(nil), (*NewExpression)(nil), (*MemberExpression)(nil),
	(*SequenceExpression)(nil), (*YieldExpression)(nil), (*AwaitExpression)(nil),
	(*MetaProperty)(nil), (*ObjectPattern)(nil), (*ArrayPattern)(nil),
	(*AssignmentPattern)(nil),
}
