package rules

import (
	"strings"

	"github.com/filacheck/filacheck/internal/fixer"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

const bulkActionUse = `use Filament\Actions\BulkAction;`

// DeprecatedBulkActions renames bulkActions() to toolbarActions() inside
// methods that take a Table.
type DeprecatedBulkActions struct{}

func NewDeprecatedBulkActions() *DeprecatedBulkActions {
	return &DeprecatedBulkActions{}
}

func (r *DeprecatedBulkActions) Name() string {
	return "deprecated-bulk-actions"
}

func (r *DeprecatedBulkActions) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedBulkActions) Fixable() bool {
	return true
}

func (r *DeprecatedBulkActions) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	name, ok := methodName(node)
	if !ok || name.Text() != "bulkActions" || !takesTable(enclosingMethod(node)) {
		return nil
	}
	return []tt.Violation{
		replace(ctx, name.Start(), name.End(), "toolbarActions",
			"The `bulkActions()` method is deprecated.",
			"Use `toolbarActions()` instead of `bulkActions()`."),
	}
}

// ActionInBulkActionGroup reports Action::make() passed to
// toolbarActions(), directly or through a BulkActionGroup, and turns it
// into BulkAction::make(). The BulkAction import is added once per file.
type ActionInBulkActionGroup struct {
	imports *fixer.ImportAdder
}

func NewActionInBulkActionGroup() *ActionInBulkActionGroup {
	return &ActionInBulkActionGroup{imports: fixer.NewImportAdder()}
}

func (r *ActionInBulkActionGroup) Name() string {
	return "action-in-bulk-action-group"
}

func (r *ActionInBulkActionGroup) Category() tt.Category {
	return tt.CategoryBestPractices
}

func (r *ActionInBulkActionGroup) Fixable() bool {
	return true
}

func (r *ActionInBulkActionGroup) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	class, name, ok := staticCall(node)
	if !ok || name.Text() != "make" || classBasename(class.Text()) != "Action" {
		return nil
	}
	if !inToolbarActions(node) || !takesTable(enclosingMethod(node)) {
		return nil
	}

	v := replace(ctx, class.Start(), class.End(), "BulkAction",
		"`Action::make()` is used inside `toolbarActions()`. Use `BulkAction::make()` instead.",
		"Replace `Action::make()` with `BulkAction::make()`.")
	v.Severity = tt.SeverityError
	violations := []tt.Violation{v}
	if imp, ok := r.imports.Violation(bulkActionUse, ctx); ok {
		violations = append(violations, imp)
	}
	return violations
}

// inToolbarActions reports whether n sits in the arguments of a
// toolbarActions() call. Receivers of that call do not count.
func inToolbarActions(n syntax.Node) bool {
	for p := n.Parent(); !p.IsZero() && !p.Is(syntax.KindMethodDeclaration); p = p.Parent() {
		if !p.Is(syntax.KindArguments) {
			continue
		}
		if name, ok := methodName(p.Parent()); ok && name.Text() == "toolbarActions" {
			return true
		}
	}
	return false
}

// enclosingMethod returns the method declaration around n, or the zero
// node outside of methods.
func enclosingMethod(n syntax.Node) syntax.Node {
	for p := n.Parent(); !p.IsZero(); p = p.Parent() {
		if p.Is(syntax.KindMethodDeclaration) {
			return p
		}
	}
	return syntax.Node{}
}

// takesTable reports whether method declares a parameter typed Table.
func takesTable(method syntax.Node) bool {
	for _, param := range method.Field("parameters").Children() {
		if !param.Is(syntax.KindSimpleParameter) {
			continue
		}
		if classBasename(strings.TrimPrefix(param.Field("type").Text(), `\`)) == "Table" {
			return true
		}
	}
	return false
}
