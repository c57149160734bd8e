package rules

import (
	"fmt"

	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

// DeprecatedMethods reports calls of methods listed in a deprecation
// table. The replacements differ in shape from the original calls, so
// they are only suggested.
type DeprecatedMethods struct {
	name    string
	methods map[string]string
}

func NewDeprecatedTableAsserts() *DeprecatedMethods {
	return &DeprecatedMethods{name: "deprecated-table-asserts", methods: tableAssertMethods}
}

func NewDeprecatedActionAsserts() *DeprecatedMethods {
	return &DeprecatedMethods{name: "deprecated-asserts", methods: actionAssertMethods}
}

func NewDeprecatedFormAsserts() *DeprecatedMethods {
	return &DeprecatedMethods{name: "deprecated-form-asserts", methods: formAssertMethods}
}

func NewDeprecatedInfolistAsserts() *DeprecatedMethods {
	return &DeprecatedMethods{name: "deprecated-infolist-asserts", methods: infolistAssertMethods}
}

func (r *DeprecatedMethods) Name() string {
	return r.name
}

func (r *DeprecatedMethods) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedMethods) Fixable() bool {
	return false
}

func (r *DeprecatedMethods) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	name, ok := methodName(node)
	if !ok {
		return nil
	}
	method := name.Text()
	replacement, ok := r.methods[method]
	if !ok {
		return nil
	}
	return []tt.Violation{
		report(ctx, name.Start(),
			fmt.Sprintf("The `%s()` method is deprecated.", method),
			fmt.Sprintf("Use `%s` instead.", replacement)),
	}
}
