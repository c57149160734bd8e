package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
)

const separator = "───────────────────────────────"

// Reporter renders check and fix results for a terminal.
type Reporter struct {
	w        io.Writer
	detailed bool
	baseDir  string
	sources  map[string]*internal.SourceCode
}

type ReporterOption func(*Reporter)

// WithDetailed groups the report by category and prints the offending
// source line under each violation.
func WithDetailed(detailed bool) ReporterOption {
	return func(r *Reporter) {
		r.detailed = detailed
	}
}

// WithReportBaseDir resolves relative violation files for source snippets.
func WithReportBaseDir(dir string) ReporterOption {
	return func(r *Reporter) {
		r.baseDir = dir
	}
}

func NewReporter(w io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		w:       w,
		sources: make(map[string]*internal.SourceCode),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report prints the outcome of a check run.
func (r *Reporter) Report(rules []internal.Rule, violations []tt.Violation) {
	violations = visible(violations)
	if r.detailed {
		r.reportDetailed(rules, violations)
		return
	}
	r.reportCompact(rules, violations)
}

func (r *Reporter) reportCompact(rules []internal.Rule, violations []tt.Violation) {
	grouped := byRule(violations)

	var failed []internal.Rule
	for _, rule := range rules {
		if len(grouped[rule.Name()]) == 0 {
			fmt.Fprint(r.w, passStyle.Sprint("."))
			continue
		}
		fmt.Fprint(r.w, failStyle.Sprint("x"))
		failed = append(failed, rule)
	}
	fmt.Fprint(r.w, "\n\n")

	for _, rule := range failed {
		fmt.Fprintf(r.w, "%s %s %s\n", failStyle.Sprint("✗"), ruleStyle.Sprint(rule.Name()),
			fileStyle.Sprintf("(%s)", rule.Category().Label()))
		for _, group := range byFile(grouped[rule.Name()]) {
			fmt.Fprintf(r.w, "  %s\n", fileStyle.Sprint(group.file))
			for _, v := range group.violations {
				writeViolation(r.w, "    ", v, "")
			}
		}
		fmt.Fprintln(r.w)
	}

	passed := len(rules) - len(failed)
	if len(violations) == 0 {
		fmt.Fprintln(r.w, passBoldStyle.Sprintf("All %d rules passed!", len(rules)))
		return
	}
	errs, warnings := countSeverities(violations)
	fmt.Fprintf(r.w, "Rules: %s, %s\n", passStyle.Sprintf("%d passed", passed), failStyle.Sprintf("%d failed", len(failed)))
	fmt.Fprintf(r.w, "Issues: %s\n", issueSummary(errs, warnings, ", "))
}

func (r *Reporter) reportDetailed(rules []internal.Rule, violations []tt.Violation) {
	grouped := byRule(violations)

	for _, category := range tt.Categories {
		var inCategory []internal.Rule
		for _, rule := range rules {
			if rule.Category() == category {
				inCategory = append(inCategory, rule)
			}
		}
		if len(inCategory) == 0 {
			continue
		}

		fmt.Fprintln(r.w, categoryStyle.Sprint(category.Label()))
		fmt.Fprintln(r.w, fileStyle.Sprint(category.Description()))
		fmt.Fprintln(r.w)

		for _, rule := range inCategory {
			found := grouped[rule.Name()]
			if len(found) == 0 {
				fmt.Fprintf(r.w, "  %s %s\n", passStyle.Sprint("✓"), rule.Name())
				continue
			}
			fmt.Fprintf(r.w, "  %s %s %s\n", partialStyle.Sprint("✗"), rule.Name(),
				fileStyle.Sprintf("(%d finding(s))", len(found)))
			for _, group := range byFile(found) {
				fmt.Fprintf(r.w, "    %s\n", fileStyle.Sprint(group.file))
				for _, v := range group.violations {
					writeViolation(r.w, "      ", v, "")
					writeSnippet(r.w, "        ", r.source(v.File, v.Path), v.Line)
				}
			}
		}
		fmt.Fprintln(r.w)
	}

	if len(violations) == 0 {
		fmt.Fprintln(r.w, passStyle.Sprint("No issues found!"))
		return
	}
	errs, warnings := countSeverities(violations)
	fmt.Fprintf(r.w, "Found %s.\n", issueSummary(errs, warnings, " and "))
}

// ReportWithFixes prints the outcome of a fix run. previews may be nil
// when the run was not a dry run.
func (r *Reporter) ReportWithFixes(rules []internal.Rule, violations []tt.Violation, result *tt.FixResult, previews *PreviewSet) {
	violations = visible(violations)
	if result == nil {
		result = tt.NewFixResult(false)
	}
	if previews == nil {
		previews = NewPreviewSet(result, r.baseDir)
	}
	grouped := byRule(violations)

	var fixed, unfixed []internal.Rule
	pending := make(map[string]int)
	for _, rule := range rules {
		found := grouped[rule.Name()]
		if len(found) == 0 {
			fmt.Fprint(r.w, passStyle.Sprint("."))
			continue
		}
		for _, v := range found {
			if isApplied(v, result) {
				pending[v.File]++
			}
		}
		applied := countApplied(found, result)
		switch {
		case applied == len(found):
			fmt.Fprint(r.w, fixedStyle.Sprint("F"))
			fixed = append(fixed, rule)
		case applied > 0:
			fmt.Fprint(r.w, partialStyle.Sprint("P"))
			unfixed = append(unfixed, rule)
		default:
			fmt.Fprint(r.w, failStyle.Sprint("x"))
			unfixed = append(unfixed, rule)
		}
	}
	fmt.Fprint(r.w, "\n\n")

	for _, rule := range append(fixed, unfixed...) {
		r.reportRuleWithFixes(rule, grouped[rule.Name()], result, previews, pending)
	}
	r.reportFixSummary(result)
}

// pending counts the applied violations per file that are still to be
// printed; the last one of a file also receives the previews no other
// violation claimed.
func (r *Reporter) reportRuleWithFixes(
	rule internal.Rule,
	violations []tt.Violation,
	result *tt.FixResult,
	previews *PreviewSet,
	pending map[string]int,
) {
	applied := countApplied(violations, result)
	var icon, status string
	switch {
	case applied == len(violations):
		icon = fixedStyle.Sprint("✓")
		status = fixedStyle.Sprint(pick(result.DryRun, "(proposed)", "(fixed)"))
	case applied > 0:
		icon = partialStyle.Sprint("!")
		status = partialStyle.Sprint(pick(result.DryRun, "(partial proposed)", "(partial fix)"))
	case anyFixable(violations):
		icon = failStyle.Sprint("✗")
		status = failStyle.Sprint("(not applied)")
	default:
		icon = failStyle.Sprint("✗")
		status = failStyle.Sprint("(not fixable)")
	}
	fmt.Fprintf(r.w, "%s %s %s %s\n", icon, ruleStyle.Sprint(rule.Name()),
		fileStyle.Sprintf("(%s)", rule.Category().Label()), status)

	for _, group := range byFile(violations) {
		fmt.Fprintf(r.w, "  %s\n", fileStyle.Sprint(group.file))
		for _, v := range group.violations {
			if !isApplied(v, result) {
				note := "(manual fix required)"
				if err := result.ByFile[v.File].Err; err != nil && v.CanFix() {
					note = fmt.Sprintf("(not applied: %v)", err)
				}
				writeViolation(r.w, "    ", v, " "+partialStyle.Sprint(note))
				continue
			}

			line := fmt.Sprintf("    %s %s %s\n", fixedStyle.Sprintf("Line %d:", v.Line), v.Message,
				fixedStyle.Sprint(pick(result.DryRun, "(proposed)", "(fixed)")))
			fmt.Fprint(r.w, line)
			if v.Suggestion != "" {
				fmt.Fprintf(r.w, "      %s\n", suggestionStyle.Sprintf("→ %s", v.Suggestion))
			}
			pending[v.File]--
			if result.DryRun {
				r.writePreviews(v.File, previews.Consume(v.File, v.Line, pending[v.File] == 0), previews)
			}
		}
	}
	fmt.Fprintln(r.w)
}

func (r *Reporter) writePreviews(file string, changes []tt.Preview, previews *PreviewSet) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(r.w, "      %s\n", fileStyle.Sprint("Proposed file changes:"))
	for _, change := range changes {
		fmt.Fprintf(r.w, "        %s\n", fileStyle.Sprintf("@@ line %d @@", change.Line))
		for _, d := range previews.RenderChange(file, change) {
			sign := removedStyle.Sprint("-")
			if d.Added {
				sign = addedStyle.Sprint("+")
			}
			fmt.Fprintf(r.w, "        %s %s\n", sign, colorize(d))
		}
	}
}

func (r *Reporter) reportFixSummary(result *tt.FixResult) {
	files := 0
	for _, fr := range result.ByFile {
		if fr.Fixed > 0 && fr.Err == nil {
			files++
		}
	}

	fmt.Fprintln(r.w, fileStyle.Sprint(separator))
	if result.Fixed > 0 {
		if result.DryRun {
			fmt.Fprintf(r.w, "%s in %d file(s)\n", fixedBoldStyle.Sprintf("✓ Proposed %d fix(es)", result.Fixed), files)
		} else {
			fmt.Fprintf(r.w, "%s in %d file(s)\n", fixedBoldStyle.Sprintf("✓ Fixed %d issue(s)", result.Fixed), files)
		}
	}
	if result.Skipped > 0 {
		fmt.Fprintln(r.w, partialStyle.Sprintf("! %d issue(s) require manual attention", result.Skipped))
	}
	if result.Fixed > 0 && result.Skipped == 0 {
		fmt.Fprintln(r.w, passBoldStyle.Sprint(pick(result.DryRun,
			"All fixable issues have been proposed!", "All issues have been fixed!")))
	}
	if result.Fixed == 0 && result.Skipped == 0 {
		fmt.Fprintln(r.w, passBoldStyle.Sprint("Nothing to fix!"))
	}
}

// source reads file from path, or from file resolved against the base
// directory when path is empty.
func (r *Reporter) source(file, path string) *internal.SourceCode {
	if src, ok := r.sources[file]; ok {
		return src
	}
	if path == "" {
		path = tt.ResolvePath(file, r.baseDir)
	}
	src, _ := internal.ReadSourceCode(path)
	r.sources[file] = src
	return src
}

func anyFixable(violations []tt.Violation) bool {
	for _, v := range violations {
		if v.CanFix() {
			return true
		}
	}
	return false
}

// isApplied reports whether the fix pass took the edit of v.
func isApplied(v tt.Violation, result *tt.FixResult) bool {
	return v.CanFix() && result.ByFile[v.File].Err == nil
}

func countApplied(violations []tt.Violation, result *tt.FixResult) int {
	n := 0
	for _, v := range violations {
		if isApplied(v, result) {
			n++
		}
	}
	return n
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// ReportFile prints the violations of a single file, one block per
// violation. It is used when files are re-checked one at a time.
func (r *Reporter) ReportFile(file string, violations []tt.Violation) {
	violations = visible(violations)
	if len(violations) == 0 {
		fmt.Fprintf(r.w, "%s %s\n", passStyle.Sprint("✓"), fileStyle.Sprint(file))
		return
	}
	src := r.source(file, violations[0].Path)
	for _, v := range violations {
		width := calculateMaxLineNumWidth(v.Line)
		padding := strings.Repeat(" ", width+1)
		fmt.Fprintln(r.w, header(v, width))
		if line := strings.TrimLeft(src.Line(v.Line), " \t"); line != "" {
			fmt.Fprintln(r.w, lineStyle.Sprintf("%s|", padding))
			fmt.Fprintf(r.w, "%s %s\n", lineStyle.Sprintf("%*d |", width, v.Line), line)
		}
		fmt.Fprintf(r.w, "%s %s\n", lineStyle.Sprintf("%s=", padding), v.Message)
		if v.Suggestion != "" {
			fmt.Fprintf(r.w, "%s %s\n", lineStyle.Sprintf("%s=", padding), suggestionStyle.Sprintf("→ %s", v.Suggestion))
		}
		fmt.Fprintln(r.w)
	}
}

func header(v tt.Violation, width int) string {
	var s string
	switch v.Severity {
	case tt.SeverityError:
		s = errorStyle.Sprint("error: ")
	case tt.SeverityWarning:
		s = warningStyle.Sprint("warning: ")
	default:
		s = noStyle.Sprint("info: ")
	}
	s += ruleStyle.Sprint(v.Rule) + "\n"
	s += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", width))
	s += fileStyle.Sprintf("%s:%d", v.File, v.Line)
	return s
}
