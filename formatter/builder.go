package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.Bold)
	fileStyle       = color.New(color.FgHiBlack)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	passStyle       = color.New(color.FgGreen)
	passBoldStyle   = color.New(color.FgGreen, color.Bold)
	failStyle       = color.New(color.FgRed)
	partialStyle    = color.New(color.FgYellow)
	fixedStyle      = color.New(color.FgCyan)
	fixedBoldStyle  = color.New(color.FgCyan, color.Bold)
	categoryStyle   = color.New(color.FgCyan, color.Bold)
	suggestionStyle = color.New(color.FgHiBlack)
	removedStyle    = color.New(color.FgRed)
	addedStyle      = color.New(color.FgGreen)
	noStyle         = color.New(color.FgWhite)
)

// levelStyle picks the colour of the "Line N:" prefix.
func levelStyle(s tt.Severity) *color.Color {
	switch s {
	case tt.SeverityError:
		return failStyle
	case tt.SeverityWarning:
		return partialStyle
	default:
		return noStyle
	}
}

// visible drops silent violations.
func visible(violations []tt.Violation) []tt.Violation {
	out := make([]tt.Violation, 0, len(violations))
	for _, v := range violations {
		if !v.Silent {
			out = append(out, v)
		}
	}
	return out
}

func byRule(violations []tt.Violation) map[string][]tt.Violation {
	grouped := make(map[string][]tt.Violation)
	for _, v := range violations {
		grouped[v.Rule] = append(grouped[v.Rule], v)
	}
	return grouped
}

type fileGroup struct {
	file       string
	violations []tt.Violation
}

// byFile groups violations by file, keeping the order files first appear in.
func byFile(violations []tt.Violation) []fileGroup {
	var groups []fileGroup
	index := make(map[string]int)
	for _, v := range violations {
		i, ok := index[v.File]
		if !ok {
			i = len(groups)
			index[v.File] = i
			groups = append(groups, fileGroup{file: v.File})
		}
		groups[i].violations = append(groups[i].violations, v)
	}
	return groups
}

func countSeverities(violations []tt.Violation) (errors, warnings int) {
	for _, v := range violations {
		switch v.Severity {
		case tt.SeverityError:
			errors++
		case tt.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

func issueSummary(errors, warnings int, sep string) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, failStyle.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, partialStyle.Sprintf("%d warning(s)", warnings))
	}
	return strings.Join(parts, sep)
}

func writeViolation(w io.Writer, indent string, v tt.Violation, status string) {
	fmt.Fprintf(w, "%s%s %s%s\n", indent, levelStyle(v.Severity).Sprintf("Line %d:", v.Line), v.Message, status)
	if v.Suggestion != "" {
		fmt.Fprintf(w, "%s  %s\n", indent, suggestionStyle.Sprintf("→ %s", v.Suggestion))
	}
}

// writeSnippet prints line n of src with a line number gutter.
func writeSnippet(w io.Writer, indent string, src *internal.SourceCode, n int) {
	line := src.Line(n)
	if strings.TrimSpace(line) == "" {
		return
	}
	width := calculateMaxLineNumWidth(n)
	padding := strings.Repeat(" ", width+1)
	fmt.Fprintf(w, "%s%s\n", indent, lineStyle.Sprintf("%s|", padding))
	fmt.Fprintf(w, "%s%s %s\n", indent, lineStyle.Sprintf("%*d |", width, n), strings.TrimLeft(line, " \t"))
	fmt.Fprintf(w, "%s%s\n", indent, lineStyle.Sprintf("%s|", padding))
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// colorize renders a preview line with its changed segment highlighted.
func colorize(d DiffLine) string {
	change := removedStyle
	if d.Added {
		change = addedStyle
	}
	before, changed, after := d.Segments()
	if changed == "" {
		if d.Added && d.HighlightStart == 0 && d.HighlightEnd == len(d.Text) {
			return change.Sprint(d.Text)
		}
		return fileStyle.Sprint(d.Text)
	}
	return fileStyle.Sprint(before) + change.Sprint(changed) + fileStyle.Sprint(after)
}
