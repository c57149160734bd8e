// Package rules holds the checks run by the engine on every node of a
// PHP syntax tree.
package rules

import (
	"strings"

	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// classBasename returns the last segment of a namespaced class name.
func classBasename(class string) string {
	if i := strings.LastIndexByte(class, '\\'); i >= 0 {
		return class[i+1:]
	}
	return class
}

// isMethodCall reports whether n is an instance method call, plain or
// nullsafe.
func isMethodCall(n syntax.Node) bool {
	return n.Is(syntax.KindMemberCall, syntax.KindNullsafeMemberCall)
}

// methodName returns the name node of a method call whose name is a
// plain identifier.
func methodName(n syntax.Node) (syntax.Node, bool) {
	if !isMethodCall(n) {
		return syntax.Node{}, false
	}
	name := n.Field("name")
	if !name.Is(syntax.KindName) {
		return syntax.Node{}, false
	}
	return name, true
}

// staticCall returns the class and method name nodes of a static call
// with a literal class name, such as Foo\Bar::make().
func staticCall(n syntax.Node) (class, name syntax.Node, ok bool) {
	if !n.Is(syntax.KindScopedCall) {
		return syntax.Node{}, syntax.Node{}, false
	}
	class = n.Field("scope")
	name = n.Field("name")
	if !class.Is(syntax.KindName, syntax.KindQualifiedName) || !name.Is(syntax.KindName) {
		return syntax.Node{}, syntax.Node{}, false
	}
	return class, name, true
}

// chainRoot follows the receivers of a method chain down to the
// expression the chain starts from.
func chainRoot(n syntax.Node) syntax.Node {
	for isMethodCall(n) {
		n = n.Field("object")
	}
	return n
}

// rootClass returns the class a method chain starts from: the class of a
// leading static call, or the parent class when the chain starts from
// $this. It returns "" when the chain starts anywhere else.
func rootClass(call syntax.Node) string {
	root := chainRoot(call)
	switch {
	case root.Is(syntax.KindScopedCall):
		if class, _, ok := staticCall(root); ok {
			return strings.TrimPrefix(class.Text(), `\`)
		}
	case root.Is(syntax.KindVariableName) && root.Text() == "$this":
		return parentClass(root)
	}
	return ""
}

// parentClass returns the name in the extends clause of the class
// enclosing n.
func parentClass(n syntax.Node) string {
	for p := n.Parent(); !p.IsZero(); p = p.Parent() {
		if !p.Is(syntax.KindClassDeclaration) {
			continue
		}
		base := p.FirstChild(syntax.KindBaseClause)
		return strings.TrimPrefix(base.FirstChild(syntax.KindName, syntax.KindQualifiedName).Text(), `\`)
	}
	return ""
}

// useNames returns the imported name of every clause of a use
// declaration. Grouped uses are not included.
func useNames(n syntax.Node) []syntax.Node {
	if !n.Is(syntax.KindUseDeclaration) {
		return nil
	}
	var names []syntax.Node
	for _, clause := range n.Children() {
		if !clause.Is(syntax.KindUseClause) {
			continue
		}
		if name := clause.FirstChild(syntax.KindQualifiedName, syntax.KindName); !name.IsZero() {
			names = append(names, name)
		}
	}
	return names
}

// arguments returns the argument nodes of a call.
func arguments(call syntax.Node) []syntax.Node {
	var args []syntax.Node
	for _, child := range call.Field("arguments").Children() {
		if child.Is(syntax.KindArgument) {
			args = append(args, child)
		}
	}
	return args
}

// argumentValue returns the expression of an argument, skipping the
// name of a named argument.
func argumentValue(arg syntax.Node) syntax.Node {
	children := arg.Children()
	if len(children) == 0 {
		return syntax.Node{}
	}
	return children[len(children)-1]
}

// isEmptyString reports whether n is the literal '' or "".
func isEmptyString(n syntax.Node) bool {
	if !n.Is(syntax.KindString, syntax.KindEncapsedString) {
		return false
	}
	text := n.Text()
	return text == "''" || text == `""`
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// replace builds the fixable violation that rewrites [start, end) of the
// context source.
func replace(ctx *tt.Context, start, end int, text, message, suggestion string) tt.Violation {
	return tt.Violation{
		Severity:   tt.SeverityWarning,
		Message:    message,
		File:       ctx.File,
		Line:       ctx.Line(start),
		Suggestion: suggestion,
		Fixable:    true,
		Edit:       &tt.Edit{Start: start, End: end, NewText: text},
	}
}

// report builds a violation without a fix.
func report(ctx *tt.Context, offset int, message, suggestion string) tt.Violation {
	return tt.Violation{
		Severity:   tt.SeverityWarning,
		Message:    message,
		File:       ctx.File,
		Line:       ctx.Line(offset),
		Suggestion: suggestion,
	}
}
