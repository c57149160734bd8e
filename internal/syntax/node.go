package syntax

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the grammar type of a node.
type Kind string

// Node kinds of the tree-sitter PHP grammar used by the rules.
const (
	KindProgram                   Kind = "program"
	KindPHPTag                    Kind = "php_tag"
	KindComment                   Kind = "comment"
	KindClassDeclaration          Kind = "class_declaration"
	KindBaseClause                Kind = "base_clause"
	KindMethodDeclaration         Kind = "method_declaration"
	KindPropertyDeclaration       Kind = "property_declaration"
	KindPropertyElement           Kind = "property_element"
	KindVisibilityModifier        Kind = "visibility_modifier"
	KindStaticModifier            Kind = "static_modifier"
	KindUseDeclaration            Kind = "namespace_use_declaration"
	KindUseClause                 Kind = "namespace_use_clause"
	KindMemberCall                Kind = "member_call_expression"
	KindNullsafeMemberCall        Kind = "nullsafe_member_call_expression"
	KindScopedCall                Kind = "scoped_call_expression"
	KindAnonymousFunction         Kind = "anonymous_function"
	KindAnonymousFunctionCreation Kind = "anonymous_function_creation_expression"
	KindArrowFunction             Kind = "arrow_function"
	KindFormalParameters          Kind = "formal_parameters"
	KindSimpleParameter           Kind = "simple_parameter"
	KindArguments                 Kind = "arguments"
	KindArgument                  Kind = "argument"
	KindName                      Kind = "name"
	KindQualifiedName             Kind = "qualified_name"
	KindVariableName              Kind = "variable_name"
	KindString                    Kind = "string"
	KindEncapsedString            Kind = "encapsed_string"
	KindText                      Kind = "text"
)

// Node is a syntax tree node bound to its source. The zero Node is a
// valid "absent" node: its accessors return zero values.
type Node struct {
	n   *sitter.Node
	src []byte
}

func (n Node) IsZero() bool {
	return n.n == nil
}

func (n Node) Kind() Kind {
	if n.n == nil {
		return ""
	}
	return Kind(n.n.Type())
}

// Is reports whether the node has one of the given kinds.
func (n Node) Is(kinds ...Kind) bool {
	k := n.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Start is the byte offset of the first byte of the node.
func (n Node) Start() int {
	if n.n == nil {
		return 0
	}
	return int(n.n.StartByte())
}

// End is the byte offset just past the node.
func (n Node) End() int {
	if n.n == nil {
		return 0
	}
	return int(n.n.EndByte())
}

// Line is the 1-based line of the node start, counted on the source.
func (n Node) Line() int {
	if n.n == nil {
		return 0
	}
	return bytes.Count(n.src[:n.Start()], []byte{'\n'}) + 1
}

func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return string(n.src[n.Start():n.End()])
}

// Field returns the child stored under the grammar field name.
func (n Node) Field(name string) Node {
	if n.n == nil {
		return Node{}
	}
	child := n.n.ChildByFieldName(name)
	if child == nil {
		return Node{}
	}
	return Node{n: child, src: n.src}
}

// Children returns the named children of the node.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	count := int(n.n.NamedChildCount())
	children := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.n.NamedChild(i); child != nil {
			children = append(children, Node{n: child, src: n.src})
		}
	}
	return children
}

// FirstChild returns the first named child with one of the given kinds.
func (n Node) FirstChild(kinds ...Kind) Node {
	for _, child := range n.Children() {
		if child.Is(kinds...) {
			return child
		}
	}
	return Node{}
}

func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	parent := n.n.Parent()
	if parent == nil {
		return Node{}
	}
	return Node{n: parent, src: n.src}
}

// EndLine is the 1-based line of the last byte of the node.
func (n Node) EndLine() int {
	if n.n == nil {
		return 0
	}
	end := n.End()
	if end > n.Start() {
		end--
	}
	return bytes.Count(n.src[:end], []byte{'\n'}) + 1
}

// Next returns the next named sibling.
func (n Node) Next() Node {
	if n.n == nil {
		return Node{}
	}
	next := n.n.NextNamedSibling()
	if next == nil {
		return Node{}
	}
	return Node{n: next, src: n.src}
}

// Prev returns the previous named sibling.
func (n Node) Prev() Node {
	if n.n == nil {
		return Node{}
	}
	prev := n.n.PrevNamedSibling()
	if prev == nil {
		return Node{}
	}
	return Node{n: prev, src: n.src}
}

// Source returns the whole text the node was parsed from.
func (n Node) Source() []byte {
	return n.src
}
