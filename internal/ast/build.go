package ast

// Constructors for nodes that plugins synthesize. Synthesized nodes carry no
// source span.

func NewIdentifier(name string) *Identifier { return &Identifier{Name: name} }

func NewString(value string) *StringLiteral { return &StringLiteral{Value: value} }

func NewNumber(value float64) *NumericLiteral { return &NumericLiteral{Value: value} }

func NewBool(value bool) *BooleanLiteral { return &BooleanLiteral{Value: value} }

// NewVoid0 builds `void 0`, the canonical undefined value.
func NewVoid0() *UnaryExpression {
	return &UnaryExpression{Operator: "void", Argument: NewNumber(0), Prefix: true}
}

// NewMember builds object.property for a static property name.
func NewMember(object Node, property string) *MemberExpression {
	return &MemberExpression{Object: object, Property: NewIdentifier(property)}
}

// NewMemberPath builds a.b.c from its dotted parts.
func NewMemberPath(first string, rest ...string) Node {
	var n Node = NewIdentifier(first)
	for _, p := range rest {
		n = NewMember(n, p)
	}
	return n
}

func NewComputedMember(object, property Node) *MemberExpression {
	return &MemberExpression{Object: object, Property: property, Computed: true}
}

func NewCall(callee Node, args ...Node) *CallExpression {
	if args == nil {
		args = []Node{}
	}
	return &CallExpression{Callee: callee, Arguments: args}
}

func NewAssign(op string, left, right Node) *AssignmentExpression {
	return &AssignmentExpression{Operator: op, Left: left, Right: right}
}

func NewBinary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

func NewExpressionStatement(expr Node) *ExpressionStatement {
	return &ExpressionStatement{Expression: expr}
}

func NewReturn(arg Node) *ReturnStatement { return &ReturnStatement{Argument: arg} }

func NewBlock(stmts ...Node) *BlockStatement {
	if stmts == nil {
		stmts = []Node{}
	}
	return &BlockStatement{Body: stmts}
}

// NewVar builds a single-declarator variable declaration.
func NewVar(kind, name string, init Node) *VariableDeclaration {
	return &VariableDeclaration{
		Kind:         kind,
		Declarations: []*VariableDeclarator{{ID: NewIdentifier(name), Init: init}},
	}
}

func NewDirective(value string) *Directive {
	return &Directive{Value: &DirectiveLiteral{Value: value}}
}

func NewProperty(key, value Node) *ObjectProperty {
	return &ObjectProperty{Key: key, Value: value}
}

func NewObject(props ...Node) *ObjectExpression {
	if props == nil {
		props = []Node{}
	}
	return &ObjectExpression{Properties: props}
}

// StaticName returns the name a non-computed property key spells, or "".
func StaticName(key Node, computed bool) string {
	switch k := key.(type) {
	case *Identifier:
		if !computed {
			return k.Name
		}
	case *StringLiteral:
		return k.Value
	}
	return ""
}
