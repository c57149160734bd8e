package rules

import (
	"fmt"
	"strings"

	"github.com/filacheck/filacheck/internal/fixer"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

const (
	formsSetClass   = `Filament\Forms\Set`
	formsGetClass   = `Filament\Forms\Get`
	utilitiesSet    = `Filament\Schemas\Components\Utilities\Set`
	utilitiesGet    = `Filament\Schemas\Components\Utilities\Get`
	utilitiesGetUse = `use Filament\Schemas\Components\Utilities\Get;`
)

// useRewrites reports every import of from in a use declaration and
// rewrites it to to.
func useRewrites(node syntax.Node, ctx *tt.Context, from, to string) []tt.Violation {
	var violations []tt.Violation
	for _, name := range useNames(node) {
		if strings.TrimPrefix(name.Text(), `\`) != from {
			continue
		}
		violations = append(violations, replace(ctx, name.Start(), name.End(), to,
			fmt.Sprintf("The `%s` class namespace is deprecated.", from),
			fmt.Sprintf("Use `%s` instead of `%s`.", to, from)))
	}
	return violations
}

type DeprecatedFormsSet struct{}

func NewDeprecatedFormsSet() *DeprecatedFormsSet {
	return &DeprecatedFormsSet{}
}

func (r *DeprecatedFormsSet) Name() string {
	return "deprecated-forms-set"
}

func (r *DeprecatedFormsSet) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedFormsSet) Fixable() bool {
	return true
}

func (r *DeprecatedFormsSet) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	return useRewrites(node, ctx, formsSetClass, utilitiesSet)
}

// DeprecatedFormsGet rewrites imports of the old Get utility and the
// `callable $get` closure parameters that stood in for it. Typing a
// parameter as Get needs the import, which is added once per file.
type DeprecatedFormsGet struct {
	imports *fixer.ImportAdder
}

func NewDeprecatedFormsGet() *DeprecatedFormsGet {
	return &DeprecatedFormsGet{imports: fixer.NewImportAdder()}
}

func (r *DeprecatedFormsGet) Name() string {
	return "deprecated-forms-get"
}

func (r *DeprecatedFormsGet) Category() tt.Category {
	return tt.CategoryDeprecated
}

func (r *DeprecatedFormsGet) Fixable() bool {
	return true
}

func (r *DeprecatedFormsGet) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	switch {
	case node.Is(syntax.KindUseDeclaration):
		return useRewrites(node, ctx, formsGetClass, utilitiesGet)
	case node.Is(syntax.KindAnonymousFunction, syntax.KindAnonymousFunctionCreation, syntax.KindArrowFunction):
		return r.checkClosure(node, ctx)
	}
	return nil
}

func (r *DeprecatedFormsGet) checkClosure(node syntax.Node, ctx *tt.Context) []tt.Violation {
	var violations []tt.Violation
	for _, param := range node.Field("parameters").Children() {
		if !param.Is(syntax.KindSimpleParameter) || param.Field("name").Text() != "$get" {
			continue
		}
		typ := param.Field("type")
		if !strings.EqualFold(typ.Text(), "callable") {
			continue
		}

		violations = append(violations, replace(ctx, typ.Start(), typ.End(), "Get",
			"Parameter `$get` should be typed as `Get` instead of `callable`.",
			"Use `Filament\\Schemas\\Components\\Utilities\\Get $get` instead of `callable $get`."))

		// An import of the old class is rewritten in place by the use
		// check, so a second import would clash with it.
		if importsClass(ctx.Source, formsGetClass) {
			continue
		}
		if v, ok := r.imports.Violation(utilitiesGetUse, ctx); ok {
			violations = append(violations, v)
		}
	}
	return violations
}

// importsClass reports whether src has a plain use statement for class.
func importsClass(src []byte, class string) bool {
	return strings.Contains(string(src), "use "+class+";")
}
