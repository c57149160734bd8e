package rules

import (
	"fmt"
	"regexp"

	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

var renamedURLParameters = map[string]string{
	"activeRelationManager":  "relation",
	"activeTab":              "tab",
	"isTableReordering":      "reordering",
	"tableFilters":           "filters",
	"tableGrouping":          "grouping",
	"tableGroupingDirection": "groupingDirection",
	"tableSearch":            "search",
	"tableSort":              "sort",
}

var urlParameterPattern = regexp.MustCompile(
	`\b(activeRelationManager|activeTab|isTableReordering|tableFilters|tableGroupingDirection|tableGrouping|tableSearch|tableSort)\b`)

// DeprecatedURLParameters renames the query parameters Filament 4 gave
// shorter names, wherever they appear in a string literal.
type DeprecatedURLParameters struct{}

func NewDeprecatedURLParameters() *DeprecatedURLParameters {
	return &DeprecatedURLParameters{}
}

func (r *DeprecatedURLParameters) Name() string {
	return "deprecated-url-parameters"
}

func (r *DeprecatedURLParameters) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedURLParameters) Fixable() bool {
	return true
}

func (r *DeprecatedURLParameters) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	if !node.Is(syntax.KindString, syntax.KindEncapsedString) {
		return nil
	}
	text := node.Text()

	var violations []tt.Violation
	for _, loc := range urlParameterPattern.FindAllStringIndex(text, -1) {
		// interpolated variables keep their name
		if loc[0] > 0 && text[loc[0]-1] == '$' {
			continue
		}
		old := text[loc[0]:loc[1]]
		name := renamedURLParameters[old]
		start := node.Start() + loc[0]
		violations = append(violations, replace(ctx, start, start+len(old), name,
			fmt.Sprintf("The `%s` URL parameter is deprecated.", old),
			fmt.Sprintf("Use `%s` instead of `%s`.", name, old)))
	}
	return violations
}
