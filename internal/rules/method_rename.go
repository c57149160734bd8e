package rules

import (
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

var (
	filterClasses = []string{
		"Filter",
		"SelectFilter",
		"TernaryFilter",
		"QueryBuilder",
	}

	actionClasses = []string{
		"Action",
		"EditAction",
		"DeleteAction",
		"CreateAction",
		"ViewAction",
		"ReplicateAction",
		"RestoreAction",
		"ForceDeleteAction",
		"BulkAction",
		"DeleteBulkAction",
		"RestoreBulkAction",
		"ForceDeleteBulkAction",
	}
)

// MethodRename reports calls of a deprecated method and renames them.
// When roots is set, only chains starting from one of those classes are
// reported.
type MethodRename struct {
	name        string
	method      string
	replacement string
	message     string
	suggestion  string
	roots       []string
}

func NewDeprecatedReactive() *MethodRename {
	return &MethodRename{
		name:        "deprecated-reactive",
		method:      "reactive",
		replacement: "live",
		message:     "The `reactive()` method is deprecated.",
		suggestion:  "Use `live()` instead of `reactive()`.",
	}
}

func NewDeprecatedActionForm() *MethodRename {
	return &MethodRename{
		name:        "deprecated-action-form",
		method:      "form",
		replacement: "schema",
		message:     "The `form()` method on actions is deprecated in Filament 4.",
		suggestion:  "Use `schema()` instead of `form()`.",
		roots:       actionClasses,
	}
}

func NewDeprecatedFilterForm() *MethodRename {
	return &MethodRename{
		name:        "deprecated-filter-form",
		method:      "form",
		replacement: "schema",
		message:     "The `form()` method on filters is deprecated in Filament 4.",
		suggestion:  "Use `schema()` instead of `form()`.",
		roots:       filterClasses,
	}
}

func NewDeprecatedMutateFormDataUsing() *MethodRename {
	return &MethodRename{
		name:        "deprecated-mutate-form-data-using",
		method:      "mutateFormDataUsing",
		replacement: "mutateDataUsing",
		message:     "The `mutateFormDataUsing()` method is deprecated in Filament v4.",
		suggestion:  "Use `mutateDataUsing()` instead.",
	}
}

func NewDeprecatedImageColumnSize() *MethodRename {
	return &MethodRename{
		name:        "deprecated-image-column-size",
		method:      "size",
		replacement: "imageSize",
		message:     "The `size()` method on ImageColumn is deprecated.",
		suggestion:  "Use `imageSize()` instead of `size()`.",
		roots:       []string{"ImageColumn"},
	}
}

func (r *MethodRename) Name() string          { return r.name }
func (r *MethodRename) Category() tt.Category { return tt.CategoryDeprecated }
func (r *MethodRename) Fixable() bool         { return true }

func (r *MethodRename) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	name, ok := methodName(node)
	if !ok || name.Text() != r.method {
		return nil
	}
	if len(r.roots) > 0 && !contains(r.roots, classBasename(rootClass(node))) {
		return nil
	}
	return []tt.Violation{
		replace(ctx, name.Start(), name.End(), r.replacement, r.message, r.suggestion),
	}
}
