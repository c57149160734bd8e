package internal

import (
	"github.com/filacheck/filacheck/internal/rules"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// Rule defines the interface for all lint rules.
type Rule interface {
	// Name returns the identifier the engine stamps on every violation
	// of the rule.
	Name() string

	Category() tt.Category

	// Fixable reports whether the rule attaches edits to its violations.
	Fixable() bool

	// Check inspects a single node. It is called for every node of the
	// file in document pre-order and must not rely on siblings having
	// been visited. The returned violations leave Rule empty.
	Check(node syntax.Node, ctx *tt.Context) []tt.Violation
}

type ruleConstructor func() Rule

type ruleEntry struct {
	name  string
	build ruleConstructor
}

// allRuleConstructors lists every rule in registration order. The engine
// runs rules on a node in this order.
var allRuleConstructors = []ruleEntry{
	{"deprecated-reactive", func() Rule { return rules.NewDeprecatedReactive() }},
	{"deprecated-action-form", func() Rule { return rules.NewDeprecatedActionForm() }},
	{"deprecated-filter-form", func() Rule { return rules.NewDeprecatedFilterForm() }},
	{"deprecated-placeholder", func() Rule { return rules.NewDeprecatedPlaceholder() }},
	{"deprecated-mutate-form-data-using", func() Rule { return rules.NewDeprecatedMutateFormDataUsing() }},
	{"deprecated-empty-label", func() Rule { return rules.NewDeprecatedEmptyLabel() }},
	{"deprecated-forms-set", func() Rule { return rules.NewDeprecatedFormsSet() }},
	{"deprecated-forms-get", func() Rule { return rules.NewDeprecatedFormsGet() }},
	{"deprecated-view-property", func() Rule { return rules.NewDeprecatedViewProperty() }},
	{"deprecated-table-asserts", func() Rule { return rules.NewDeprecatedTableAsserts() }},
	{"deprecated-asserts", func() Rule { return rules.NewDeprecatedActionAsserts() }},
	{"deprecated-form-asserts", func() Rule { return rules.NewDeprecatedFormAsserts() }},
	{"deprecated-infolist-asserts", func() Rule { return rules.NewDeprecatedInfolistAsserts() }},
	{"deprecated-image-column-size", func() Rule { return rules.NewDeprecatedImageColumnSize() }},
	{"deprecated-bulk-actions", func() Rule { return rules.NewDeprecatedBulkActions() }},
	{"deprecated-url-parameters", func() Rule { return rules.NewDeprecatedURLParameters() }},
	{"wrong-tab-namespace", func() Rule { return rules.NewWrongTabNamespace() }},
	{"action-in-bulk-action-group", func() Rule { return rules.NewActionInBulkActionGroup() }},
}

// DefaultRules returns a fresh instance of every registered rule, in
// registration order.
func DefaultRules() []Rule {
	all := make([]Rule, 0, len(allRuleConstructors))
	for _, entry := range allRuleConstructors {
		all = append(all, entry.build())
	}
	return all
}

// RuleNames returns the names of every registered rule, in registration
// order.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for _, entry := range allRuleConstructors {
		names = append(names, entry.name)
	}
	return names
}
