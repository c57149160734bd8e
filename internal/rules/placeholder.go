package rules

import (
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// DeprecatedPlaceholder reports Placeholder::make(). The replacement
// component takes its content differently, so there is no fix.
type DeprecatedPlaceholder struct{}

func NewDeprecatedPlaceholder() *DeprecatedPlaceholder {
	return &DeprecatedPlaceholder{}
}

func (r *DeprecatedPlaceholder) Name() string {
	return "deprecated-placeholder"
}

func (r *DeprecatedPlaceholder) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedPlaceholder) Fixable() bool {
	return false
}

func (r *DeprecatedPlaceholder) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	class, name, ok := staticCall(node)
	if !ok || name.Text() != "make" || classBasename(class.Text()) != "Placeholder" {
		return nil
	}
	return []tt.Violation{
		report(ctx, name.Start(),
			"The `Placeholder` component is deprecated in Filament v4.",
			"Use `TextEntry::make()->state()` instead."),
	}
}
