// Package pyast provides shared Python AST traversal utilities for test
// discovery.
package pyast

import sitter "github.com/smacker/go-tree-sitter"

// Python AST node types.
const (
	NodeAttribute             = "attribute"
	NodeCall                  = "call"
	NodeClassDefinition       = "class_definition"
	NodeDecorator             = "decorator"
	NodeDecoratedDefinition   = "decorated_definition"
	NodeDefaultParameter      = "default_parameter"
	NodeDictSplatPattern      = "dictionary_splat_pattern"
	NodeFunctionDefinition    = "function_definition"
	NodeIdentifier            = "identifier"
	NodeKeywordSeparator      = "keyword_separator"
	NodeListSplatPattern      = "list_splat_pattern"
	NodeTypedDefaultParameter = "typed_default_parameter"
	NodeTypedParameter        = "typed_parameter"
)

// GetDecoratedDefinition extracts the actual definition from a
// decorated_definition node.
func GetDecoratedDefinition(node *sitter.Node) *sitter.Node {
	definition := node.ChildByFieldName("definition")
	if definition != nil {
		return definition
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeFunctionDefinition || child.Type() == NodeClassDefinition {
			return child
		}
	}
	return nil
}

// GetDecorators extracts all decorator nodes from a decorated_definition.
func GetDecorators(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeDecorator {
			decorators = append(decorators, child)
		}
	}
	return decorators
}

// IsAsync reports whether a function_definition carries the async keyword.
// The async keyword is a direct child token preceding "def" in
// tree-sitter-python.
func IsAsync(def *sitter.Node) bool {
	for i := 0; i < int(def.ChildCount()); i++ {
		if def.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

// ParameterNames returns the positional parameter names of a
// function_definition, in declaration order. Keyword-only parameters
// (everything after * or *args) and splat parameters are excluded,
// matching the positional section of a Python signature.
func ParameterNames(def *sitter.Node, source []byte) []string {
	params := def.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)

		switch p.Type() {
		case NodeIdentifier:
			names = append(names, p.Content(source))

		case NodeTypedParameter:
			// typed_parameter has no name field; the pattern is its
			// first named child.
			if id := p.NamedChild(0); id != nil && id.Type() == NodeIdentifier {
				names = append(names, id.Content(source))
			}

		case NodeDefaultParameter, NodeTypedDefaultParameter:
			if id := p.ChildByFieldName("name"); id != nil && id.Type() == NodeIdentifier {
				names = append(names, id.Content(source))
			}

		case NodeListSplatPattern, NodeDictSplatPattern, NodeKeywordSeparator:
			return names
		}
	}
	return names
}

// Decorator is the classified shape of a single decorator expression.
// The shapes form a closed set: a bare name, an attribute chain, or an
// invocation of either. Anything else classifies as the zero value.
type Decorator struct {
	// Invoked reports whether the decorator was applied with call syntax.
	Invoked bool
	// Name is the identifier text when the decorator (or its callee) is
	// a bare name.
	Name string
	// AttrChain holds the attribute names when the decorator (or its
	// callee) is an attribute access, in source order. The base
	// expression's own text is not recorded; only names reached through
	// attribute access appear.
	AttrChain []string
}

// ClassifyDecorator classifies the expression of a decorator node.
func ClassifyDecorator(node *sitter.Node, source []byte) Decorator {
	expr := node.NamedChild(0)
	if expr == nil {
		return Decorator{}
	}

	d := Decorator{}
	if expr.Type() == NodeCall {
		d.Invoked = true
		expr = expr.ChildByFieldName("function")
		if expr == nil {
			return d
		}
	}

	switch expr.Type() {
	case NodeIdentifier:
		d.Name = expr.Content(source)
	case NodeAttribute:
		d.AttrChain = attrChain(expr, source)
	}
	return d
}

// attrChain collects attribute names from a chain like a.b.c, outermost
// last. The base identifier/expression is not included.
func attrChain(node *sitter.Node, source []byte) []string {
	var chain []string
	for node != nil && node.Type() == NodeAttribute {
		attr := node.ChildByFieldName("attribute")
		if attr == nil {
			break
		}
		chain = append(chain, attr.Content(source))
		node = node.ChildByFieldName("object")
	}

	// collected outermost first; reverse to source order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
