package rules

import (
	"fmt"
	"strings"
	"sync"

	"github.com/filacheck/filacheck/internal/fixer"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
)

const (
	tabClass = `Filament\Schemas\Components\Tabs\Tab`
	tabUse   = `use Filament\Schemas\Components\Tabs\Tab;`
)

// WrongTabNamespace moves Tab imports to the schemas namespace and
// replaces the v3 Tabs\Tab::make() form. Files that call Tab::make()
// without importing any Tab get the import.
type WrongTabNamespace struct {
	imports *fixer.ImportAdder

	mu sync.Mutex
	// imported records the files that already import some Tab class.
	imported map[string]bool
}

func NewWrongTabNamespace() *WrongTabNamespace {
	return &WrongTabNamespace{
		imports:  fixer.NewImportAdder(),
		imported: make(map[string]bool),
	}
}

func (r *WrongTabNamespace) Name() string {
	return "wrong-tab-namespace"
}

func (r *WrongTabNamespace) Category() tt.Category {
	return tt.CategoryBestPractices
}

func (r *WrongTabNamespace) Fixable() bool {
	return true
}

func (r *WrongTabNamespace) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	switch {
	case node.Is(syntax.KindUseDeclaration):
		return r.checkImport(node, ctx)
	case node.Is(syntax.KindScopedCall):
		return r.checkStaticCall(node, ctx)
	}
	return nil
}

func (r *WrongTabNamespace) checkImport(node syntax.Node, ctx *tt.Context) []tt.Violation {
	var violations []tt.Violation
	for _, name := range useNames(node) {
		class := strings.TrimPrefix(name.Text(), `\`)
		if classBasename(class) != "Tab" {
			continue
		}
		r.markImported(ctx.File)
		if class == tabClass || !strings.HasPrefix(class, `Filament\`) {
			continue
		}
		violations = append(violations, replace(ctx, name.Start(), name.End(), tabClass,
			fmt.Sprintf("Wrong namespace `%s`. The correct namespace is `%s`.", class, tabClass),
			fmt.Sprintf("Use `%s` instead of `%s`.", tabClass, class)))
	}
	return violations
}

func (r *WrongTabNamespace) checkStaticCall(node syntax.Node, ctx *tt.Context) []tt.Violation {
	class, name, ok := staticCall(node)
	if !ok || name.Text() != "make" {
		return nil
	}

	var violations []tt.Violation
	switch class.Text() {
	case `Tabs\Tab`:
		violations = append(violations, replace(ctx, class.Start(), class.End(), "Tab",
			"v3-style `Tabs\\Tab::make()` usage detected. Use `Tab::make()` with the correct import instead.",
			"Replace `Tabs\\Tab::make()` with `Tab::make()` and add `"+tabUse+"`."))
	case "Tab":
	default:
		return nil
	}

	if r.isImported(ctx.File) {
		return violations
	}
	if v, ok := r.imports.Violation(tabUse, ctx); ok {
		violations = append(violations, v)
	}
	return violations
}

func (r *WrongTabNamespace) markImported(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imported[file] = true
}

func (r *WrongTabNamespace) isImported(file string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.imported[file]
}
