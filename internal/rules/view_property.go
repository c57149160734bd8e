package rules

import (
	"strings"

	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// DeprecatedViewProperty requires $view properties to be declared as
// protected, non-static strings. The fix rewrites everything in front of
// the first property name.
type DeprecatedViewProperty struct{}

func NewDeprecatedViewProperty() *DeprecatedViewProperty {
	return &DeprecatedViewProperty{}
}

func (r *DeprecatedViewProperty) Name() string {
	return "deprecated-view-property"
}

func (r *DeprecatedViewProperty) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedViewProperty) Fixable() bool {
	return true
}

func (r *DeprecatedViewProperty) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	if !node.Is(syntax.KindPropertyDeclaration) {
		return nil
	}

	var elements []syntax.Node
	isView := false
	for _, child := range node.Children() {
		if !child.Is(syntax.KindPropertyElement) {
			continue
		}
		elements = append(elements, child)
		if child.FirstChild(syntax.KindVariableName).Text() == "$view" {
			isView = true
		}
	}
	if !isView {
		return nil
	}

	protected, static := false, false
	for _, child := range node.Children() {
		switch {
		case child.Is(syntax.KindVisibilityModifier):
			protected = strings.EqualFold(child.Text(), "protected")
		case child.Is(syntax.KindStaticModifier):
			static = true
		}
	}
	typed := node.Field("type").Text() == "string"
	if protected && !static && typed {
		return nil
	}

	return []tt.Violation{
		replace(ctx, node.Start(), elements[0].Start(), "protected string ",
			"The `$view` property must be declared as `protected string`.",
			"Change the declaration to `protected string $view`."),
	}
}
