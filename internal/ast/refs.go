package ast

// IsPropertyName reports whether an identifier at parent.key names a property,
// label, or module export rather than a variable.
func IsPropertyName(parent Node, key string) bool {
	switch p := parent.(type) {
	case *MemberExpression:
		return key == "property" && !p.Computed
	case *ObjectProperty:
		return key == "key" && !p.Computed
	case *ObjectMethod:
		return key == "key" && !p.Computed
	case *ClassMethod:
		return key == "key" && !p.Computed
	case *ClassProperty:
		return key == "key" && !p.Computed
	case *LabeledStatement, *BreakStatement, *ContinueStatement, *MetaProperty, *PrivateName:
		return true
	case *ImportSpecifier:
		return key == "imported"
	case *ExportSpecifier:
		return key == "exported"
	case *ExportNamespaceSpecifier:
		return true
	}
	return false
}

// BindingNames returns the identifiers a declaration pattern binds, in order.
func BindingNames(pattern Node) []string {
	var names []string
	var collect func(Node)
	collect = func(n Node) {
		switch p := n.(type) {
		case *Identifier:
			names = append(names, p.Name)
		case *ObjectPattern:
			for _, prop := range p.Properties {
				switch pp := prop.(type) {
				case *ObjectProperty:
					collect(pp.Value)
				case *RestElement:
					collect(pp.Argument)
				}
			}
		case *ArrayPattern:
			for _, el := range p.Elements {
				if el != nil {
					collect(el)
				}
			}
		case *AssignmentPattern:
			collect(p.Left)
		case *RestElement:
			collect(p.Argument)
		}
	}
	collect(pattern)
	return names
}

// DeclaredNames returns the names a statement declares in its enclosing
// scope: variables, functions, classes, and imports.
func DeclaredNames(stmt Node) []string {
	switch s := stmt.(type) {
	case *VariableDeclaration:
		var names []string
		for _, d := range s.Declarations {
			names = append(names, BindingNames(d.ID)...)
		}
		return names
	case *FunctionDeclaration:
		if s.ID != nil {
			return []string{s.ID.Name}
		}
	case *ClassDeclaration:
		if s.ID != nil {
			return []string{s.ID.Name}
		}
	case *ImportDeclaration:
		var names []string
		for _, spec := range s.Specifiers {
			switch sp := spec.(type) {
			case *ImportSpecifier:
				names = append(names, sp.Local.Name)
			case *ImportDefaultSpecifier:
				names = append(names, sp.Local.Name)
			case *ImportNamespaceSpecifier:
				names = append(names, sp.Local.Name)
			}
		}
		return names
	case *ExportNamedDeclaration:
		if s.Declaration != nil {
			return DeclaredNames(s.Declaration)
		}
	case *ExportDefaultDeclaration:
		if s.Declaration != nil {
			switch s.Declaration.(type) {
			case *FunctionDeclaration, *ClassDeclaration:
				return DeclaredNames(s.Declaration)
			}
		}
	}
	return nil
}
