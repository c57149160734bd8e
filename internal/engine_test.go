package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/filacheck/filacheck/internal/fixer"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

// visitLog records the order in which rules see nodes.
type visitLog struct {
	mu     sync.Mutex
	visits []string
}

func (l *visitLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visits = append(l.visits, s)
}

// fakeRule reports every node of kind with a fixed message.
type fakeRule struct {
	name string
	kind syntax.Kind
	log  *visitLog
}

func (r *fakeRule) Name() string          { return r.name }
func (r *fakeRule) Category() tt.Category { return tt.CategoryDeprecated }
func (r *fakeRule) Fixable() bool         { return false }

func (r *fakeRule) Check(node syntax.Node, ctx *tt.Context) []tt.Violation {
	if r.log != nil {
		r.log.add(r.name + ":" + string(node.Kind()))
	}
	if !node.Is(r.kind) {
		return nil
	}
	return []tt.Violation{{
		Severity: tt.SeverityWarning,
		Message:  "found " + string(r.kind),
		File:     ctx.File,
		Line:     node.Line(),
		// rules cannot choose the name they report under
		Rule: "something-else",
	}}
}

const filamentSource = `<?php

namespace App\Filament\Resources;

use Filament\Forms\Components\TextInput;
use Filament\Forms\Set;
use Filament\Tables\Filters\Filter;

class PostResource
{
    public static function form($form)
    {
        return $form->schema([
            TextInput::make('title')->reactive(),
            TextInput::make('slug')
                ->afterStateUpdated(function (callable $get, Set $set) {
                    $set('slug', $get('title'));
                })
                ->visible(function (callable $get) {
                    return $get('title') !== null;
                }),
            Placeholder::make('created'),
        ]);
    }

    public static function filters()
    {
        return [
            Filter::make('published')->form([]),
        ];
    }
}
`

type ruleLine struct {
	Rule   string
	Line   int
	Silent bool
}

func ruleLines(violations []tt.Violation) []ruleLine {
	out := make([]ruleLine, 0, len(violations))
	for _, v := range violations {
		out = append(out, ruleLine{Rule: v.Rule, Line: v.Line, Silent: v.Silent})
	}
	return out
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)
	assert.NotNil(t, engine)
	assert.Len(t, engine.Rules(), len(allRuleConstructors))

	names := make([]string, 0, len(engine.Rules()))
	for _, r := range engine.Rules() {
		names = append(names, r.Name())
	}
	assert.Equal(t, RuleNames(), names)
}

func TestNewEngine_DuplicateRule(t *testing.T) {
	t.Parallel()

	_, err := NewEngine("", nil, WithRules(
		&fakeRule{name: "dup"},
		&fakeRule{name: "dup"},
	))
	assert.Error(t, err)
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)
	engine.IgnoreRule("deprecated-reactive")

	assert.True(t, engine.ignoredRules["deprecated-reactive"])
	assert.Len(t, engine.Rules(), len(allRuleConstructors)-1)
	for _, r := range engine.Rules() {
		assert.NotEqual(t, "deprecated-reactive", r.Name())
	}
}

func TestEngine_DispatchOrder(t *testing.T) {
	t.Parallel()

	log := &visitLog{}
	engine, err := NewEngine("", nil, WithRules(
		&fakeRule{name: "first", kind: syntax.KindMemberCall, log: log},
		&fakeRule{name: "second", kind: syntax.KindMemberCall, log: log},
	))
	require.NoError(t, err)

	violations, err := engine.RunSource(context.Background(), "test.php", []byte(`<?php $a->b();`))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(log.visits), 4)
	assert.Equal(t, []string{"first:program", "second:program"}, log.visits[:2])
	for i := 0; i < len(log.visits); i += 2 {
		assert.Equal(t, "first", log.visits[i][:len("first")])
		assert.Equal(t, "second", log.visits[i+1][:len("second")])
	}

	// both rules match the same node and neither short-circuits the other
	require.Len(t, violations, 2)
	assert.Equal(t, "first", violations[0].Rule)
	assert.Equal(t, "second", violations[1].Rule)
}

func TestEngine_ParseFailure(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	violations, err := engine.RunSource(context.Background(), "broken.php", []byte("<?php class {{{ $a->reactive("))
	assert.NoError(t, err)
	assert.Empty(t, violations)
}

func TestEngine_Cancelled(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.RunSource(ctx, "test.php", []byte(`<?php $a->reactive();`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	violations, err := engine.RunSource(context.Background(), "PostResource.php", []byte(filamentSource))
	require.NoError(t, err)

	assert.Equal(t, []ruleLine{
		{Rule: "deprecated-forms-set", Line: 6},
		{Rule: "deprecated-reactive", Line: 14},
		{Rule: "deprecated-forms-get", Line: 16},
		{Rule: "deprecated-forms-get", Line: 8, Silent: true},
		{Rule: "deprecated-forms-get", Line: 19},
		{Rule: "deprecated-placeholder", Line: 22},
		{Rule: "deprecated-filter-form", Line: 29},
	}, ruleLines(violations))

	for _, v := range violations {
		assert.Equal(t, "PostResource.php", v.File)
		assert.Equal(t, tt.SeverityWarning, v.Severity)
	}
}

func TestEngine_SeverityOverrides(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", map[string]tt.ConfigRule{
		"deprecated-reactive":    {Severity: tt.SeverityError},
		"deprecated-placeholder": {Severity: tt.SeverityOff},
		"no-such-rule":           {Severity: tt.SeverityError},
	})
	require.NoError(t, err)

	src := []byte("<?php\n$a->reactive();\nPlaceholder::make('x');\n$b->mutateFormDataUsing(fn () => []);\n")
	violations, err := engine.RunSource(context.Background(), "test.php", src)
	require.NoError(t, err)

	require.Len(t, violations, 2)
	assert.Equal(t, "deprecated-reactive", violations[0].Rule)
	assert.Equal(t, tt.SeverityError, violations[0].Severity)
	assert.Equal(t, "deprecated-mutate-form-data-using", violations[1].Rule)
	assert.Equal(t, tt.SeverityWarning, violations[1].Severity)
}

func TestEngine_Suppression(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	src := []byte(`<?php
$a->reactive(); // filacheck-ignore: deprecated-reactive
$b->reactive(); // filacheck-ignore: deprecated-placeholder
// filacheck-ignore
$c->reactive();
$d->reactive();
`)
	violations, err := engine.RunSource(context.Background(), "test.php", src)
	require.NoError(t, err)

	assert.Equal(t, []ruleLine{
		{Rule: "deprecated-reactive", Line: 3},
		{Rule: "deprecated-reactive", Line: 6},
	}, ruleLines(violations))
}

func TestEngine_SuppressedCallDropsItsImport(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil)
	require.NoError(t, err)

	src := `<?php

use Filament\Forms\Components\TextInput;

TextInput::make('slug')
    ->visible(function (callable $get) { // filacheck-ignore: deprecated-forms-get
        return $get('title') !== null;
    });
`
	violations, err := engine.RunSource(context.Background(), "test.php", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, violations)

	src += `
TextInput::make('title')
    ->hidden(function (callable $get) {
        return $get('slug') === null;
    });
`
	violations, err = engine.RunSource(context.Background(), "other.php", []byte(src))
	require.NoError(t, err)
	silent := 0
	for _, v := range violations {
		assert.Equal(t, "deprecated-forms-get", v.Rule)
		if v.Silent {
			silent++
		}
	}
	assert.Len(t, violations, 2)
	assert.Equal(t, 1, silent)
}

func TestEngine_RunRelativizesFiles(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_test")
	dir := filepath.Join(tempDir, "app", "Filament")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "Form.php")
	require.NoError(t, os.WriteFile(file, []byte(`<?php $input->reactive();`), 0o644))

	engine, err := NewEngine(tempDir, nil)
	require.NoError(t, err)

	violations, err := engine.Run(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, filepath.Join("app", "Filament", "Form.php"), violations[0].File)
	assert.Equal(t, file, violations[0].Path)
	assert.Equal(t, &tt.Edit{Start: 14, End: 22, NewText: "live"}, violations[0].Edit)

	_, err = engine.Run(context.Background(), filepath.Join(tempDir, "missing.php"))
	assert.Error(t, err)
}

func TestEngine_FixThenRecheck(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "engine_fix_test")
	file := filepath.Join(tempDir, "PostResource.php")
	require.NoError(t, os.WriteFile(file, []byte(filamentSource), 0o644))

	engine, err := NewEngine(tempDir, nil)
	require.NoError(t, err)
	violations, err := engine.Run(context.Background(), file)
	require.NoError(t, err)

	result, err := fixer.New(false, false, fixer.WithBaseDir(tempDir)).Apply(violations)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Fixed)
	assert.Equal(t, 1, result.Skipped)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "use Filament\\Schemas\\Components\\Utilities\\Set;\n")
	assert.Contains(t, string(content), "use Filament\\Tables\\Filters\\Filter;\nuse Filament\\Schemas\\Components\\Utilities\\Get;\n")
	assert.Contains(t, string(content), "TextInput::make('title')->live(),")
	assert.Contains(t, string(content), "function (Get $get, Set $set)")
	assert.Contains(t, string(content), "function (Get $get)")
	assert.Contains(t, string(content), "Filter::make('published')->schema([]),")

	// a second pass with fresh rules finds only what cannot be fixed
	engine, err = NewEngine(tempDir, nil)
	require.NoError(t, err)
	violations, err = engine.Run(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, []ruleLine{{Rule: "deprecated-placeholder", Line: 23}}, ruleLines(violations))
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()

	tempDir := createTempDir(t, "source_test")
	file := filepath.Join(tempDir, "a.php")
	require.NoError(t, os.WriteFile(file, []byte("<?php\r\n$a = 1;\n"), 0o644))

	code, err := ReadSourceCode(file)
	require.NoError(t, err)
	assert.Equal(t, "<?php", code.Line(1))
	assert.Equal(t, "$a = 1;", code.Line(2))
	assert.Equal(t, "", code.Line(3))
	assert.Equal(t, "", code.Line(4))
	assert.Equal(t, "", code.Line(0))
}
