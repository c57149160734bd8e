package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filacheck/filacheck/internal/fixer"
	tt "github.com/filacheck/filacheck/internal/types"
)

func TestReportCompact(t *testing.T) {
	t.Parallel()
	silent := reactiveViolation()
	silent.Rule = "wrong-tab-namespace"
	silent.Silent = true

	var out strings.Builder
	NewReporter(&out).Report(testRules(), []tt.Violation{reactiveViolation(), silent})

	expected := "x..\n\n" +
		"✗ deprecated-reactive (Deprecated Code)\n" +
		"  app/Form.php\n" +
		"    Line 6: reactive() is deprecated\n" +
		"      → Use live()\n" +
		"\n" +
		"Rules: 2 passed, 1 failed\n" +
		"Issues: 1 warning(s)\n"
	assert.Equal(t, expected, out.String())
}

func TestReportCompactAllPassed(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	NewReporter(&out).Report(testRules(), nil)

	assert.Equal(t, "...\n\nAll 3 rules passed!\n", out.String())
}

func TestReportCompactSummaryCounts(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	NewReporter(&out).Report(testRules(), []tt.Violation{reactiveViolation(), placeholderViolation()})

	assert.True(t, strings.HasPrefix(out.String(), "xx.\n\n"))
	assert.Contains(t, out.String(), "Rules: 1 passed, 2 failed\n")
	assert.Contains(t, out.String(), "Issues: 1 error(s), 1 warning(s)\n")
}

func TestReportDetailed(t *testing.T) {
	t.Parallel()
	dir := writeProject(t)

	var out strings.Builder
	NewReporter(&out, WithDetailed(true), WithReportBaseDir(dir)).
		Report(testRules(), []tt.Violation{reactiveViolation()})

	expected := "Deprecated Code\n" +
		"Methods and patterns that are deprecated in Filament v4/v5\n" +
		"\n" +
		"  ✗ deprecated-reactive (1 finding(s))\n" +
		"    app/Form.php\n" +
		"      Line 6: reactive() is deprecated\n" +
		"        → Use live()\n" +
		"          |\n" +
		"        6 | $input->reactive();\n" +
		"          |\n" +
		"  ✓ deprecated-placeholder\n" +
		"\n" +
		"Best Practices\n" +
		"Recommendations for cleaner and more maintainable code\n" +
		"\n" +
		"  ✓ wrong-tab-namespace\n" +
		"\n" +
		"Found 1 warning(s).\n"
	assert.Equal(t, expected, out.String())
}

func TestReportDetailedReadsViolationPath(t *testing.T) {
	t.Parallel()
	dir := writeProject(t)
	v := reactiveViolation()
	v.File = "Form.php"
	v.Path = filepath.Join(dir, "app", "Form.php")

	var out strings.Builder
	NewReporter(&out, WithDetailed(true), WithReportBaseDir(t.TempDir())).
		Report(testRules(), []tt.Violation{v})

	assert.Contains(t, out.String(), "        6 | $input->reactive();\n")
}

func TestReportDetailedNoIssues(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	NewReporter(&out, WithDetailed(true)).Report(testRules(), nil)

	assert.True(t, strings.HasSuffix(out.String(), "No issues found!\n"))
}

func dryRunResult() *tt.FixResult {
	result := tt.NewFixResult(true)
	result.Record("app/Form.php", tt.FileResult{Fixed: 2, Skipped: 1})
	result.Previews["app/Form.php"] = []tt.Preview{
		{Line: 1, Column: 6, Offset: 5, To: "\nuse Filament\\Schemas\\Components\\Tabs\\Tab;\n"},
		reactivePreview(),
	}
	return result
}

func TestReportWithFixesDryRun(t *testing.T) {
	t.Parallel()
	dir := writeProject(t)
	result := dryRunResult()

	silentImport := tt.Violation{
		File: "app/Form.php", Line: 1, Rule: "wrong-tab-namespace", Silent: true,
		Fixable: true, Edit: &tt.Edit{Start: 5, End: 5, NewText: "\nuse Filament\\Schemas\\Components\\Tabs\\Tab;\n"},
	}
	violations := []tt.Violation{reactiveViolation(), placeholderViolation(), silentImport}

	var out strings.Builder
	NewReporter(&out, WithReportBaseDir(dir)).
		ReportWithFixes(testRules(), violations, result, NewPreviewSet(result, dir))

	expected := "Fx.\n\n" +
		"✓ deprecated-reactive (Deprecated Code) (proposed)\n" +
		"  app/Form.php\n" +
		"    Line 6: reactive() is deprecated (proposed)\n" +
		"      → Use live()\n" +
		"      Proposed file changes:\n" +
		"        @@ line 1 @@\n" +
		"        + \n" +
		"        + use Filament\\Schemas\\Components\\Tabs\\Tab;\n" +
		"        @@ line 6 @@\n" +
		"        - $input->reactive();\n" +
		"        + $input->live();\n" +
		"\n" +
		"✗ deprecated-placeholder (Deprecated Code) (not fixable)\n" +
		"  app/Form.php\n" +
		"    Line 7: Placeholder is deprecated (manual fix required)\n" +
		"\n" +
		separator + "\n" +
		"✓ Proposed 2 fix(es) in 1 file(s)\n" +
		"! 1 issue(s) require manual attention\n"
	assert.Equal(t, expected, out.String())
}

func TestReportWithFixesPreviewsShownOnce(t *testing.T) {
	t.Parallel()
	dir := writeProject(t)
	result := tt.NewFixResult(true)
	result.Record("app/Form.php", tt.FileResult{Fixed: 2})
	second := reactiveViolation()
	second.Line = 7
	second.Edit = &tt.Edit{Start: 90, End: 101, NewText: "TextEntry"}
	result.Previews["app/Form.php"] = []tt.Preview{
		reactivePreview(),
		{Line: 7, Column: 9, Offset: 90, From: "Placeholder", To: "TextEntry"},
	}

	var out strings.Builder
	NewReporter(&out, WithReportBaseDir(dir)).
		ReportWithFixes(testRules(), []tt.Violation{reactiveViolation(), second}, result, nil)

	assert.Equal(t, 1, strings.Count(out.String(), "@@ line 6 @@"))
	assert.Equal(t, 1, strings.Count(out.String(), "@@ line 7 @@"))
	assert.Contains(t, out.String(), "        + TextEntry::make('total');\n")
	assert.Contains(t, out.String(), "All fixable issues have been proposed!\n")
}

func TestReportWithFixesApplied(t *testing.T) {
	t.Parallel()
	result := tt.NewFixResult(false)
	result.Record("app/Form.php", tt.FileResult{Fixed: 1})

	var out strings.Builder
	NewReporter(&out).ReportWithFixes(testRules(), []tt.Violation{reactiveViolation()}, result, nil)

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "F..\n\n"))
	assert.Contains(t, s, "✓ deprecated-reactive (Deprecated Code) (fixed)\n")
	assert.Contains(t, s, "    Line 6: reactive() is deprecated (fixed)\n")
	assert.NotContains(t, s, "Proposed file changes")
	assert.Contains(t, s, "✓ Fixed 1 issue(s) in 1 file(s)\n")
	assert.Contains(t, s, "All issues have been fixed!\n")
}

func TestReportWithFixesOverlap(t *testing.T) {
	t.Parallel()
	overlap := &fixer.OverlapError{
		File:   "app/Form.php",
		First:  tt.Edit{Start: 70, End: 78},
		Second: tt.Edit{Start: 66, End: 72},
	}
	result := tt.NewFixResult(false)
	result.Record("app/Form.php", tt.FileResult{Skipped: 1, Err: overlap})
	assert.True(t, errors.Is(result.ByFile["app/Form.php"].Err, fixer.ErrOverlappingEdits))

	var out strings.Builder
	NewReporter(&out).ReportWithFixes(testRules(), []tt.Violation{reactiveViolation()}, result, nil)

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "x..\n\n"))
	assert.Contains(t, s, "✗ deprecated-reactive (Deprecated Code) (not applied)\n")
	assert.NotContains(t, s, "(not fixable)")
	assert.Contains(t, s, "(not applied: "+overlap.Error()+")")
	assert.Contains(t, s, "! 1 issue(s) require manual attention\n")
}

func TestReportWithFixesNothingToDo(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	NewReporter(&out).ReportWithFixes(testRules(), nil, tt.NewFixResult(false), nil)

	assert.Equal(t, "...\n\n"+separator+"\nNothing to fix!\n", out.String())
}

func TestReportFile(t *testing.T) {
	t.Parallel()
	dir := writeProject(t)

	var out strings.Builder
	r := NewReporter(&out, WithReportBaseDir(dir))
	r.ReportFile("app/Form.php", []tt.Violation{reactiveViolation()})
	r.ReportFile("app/Other.php", nil)

	expected := "warning: deprecated-reactive\n" +
		" --> app/Form.php:6\n" +
		"  |\n" +
		"6 | $input->reactive();\n" +
		"  = reactive() is deprecated\n" +
		"  = → Use live()\n" +
		"\n" +
		"✓ app/Other.php\n"
	assert.Equal(t, expected, out.String())
}
