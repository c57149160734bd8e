package rules

import (
	"strings"

	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// DeprecatedEmptyLabel reports ->label('') used to hide a label. Actions
// become icon buttons, other components get hiddenLabel(). Table columns
// have no hiddenLabel() and are left alone.
type DeprecatedEmptyLabel struct{}

func NewDeprecatedEmptyLabel() *DeprecatedEmptyLabel {
	return &DeprecatedEmptyLabel{}
}

func (r *DeprecatedEmptyLabel) Name() string {
	return "deprecated-empty-label"
}

func (r *DeprecatedEmptyLabel) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedEmptyLabel) Fixable() bool {
	return true
}

func (r *DeprecatedEmptyLabel) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	name, ok := methodName(node)
	if !ok || name.Text() != "label" {
		return nil
	}
	args := arguments(node)
	if len(args) != 1 || !isEmptyString(argumentValue(args[0])) {
		return nil
	}

	root := classBasename(rootClass(node))
	if strings.HasSuffix(root, "Column") {
		return nil
	}

	const message = "Using `label('')` to hide labels is deprecated."
	// The edit covers the method name up to the closing parenthesis.
	if strings.HasSuffix(root, "Action") {
		return []tt.Violation{
			replace(ctx, name.Start(), node.End(), "iconButton()", message,
				"Use `iconButton()` instead of `label('')` for Actions."),
		}
	}
	return []tt.Violation{
		replace(ctx, name.Start(), node.End(), "hiddenLabel()", message,
			"Use `hiddenLabel()` instead of `label('')`."),
	}
}
