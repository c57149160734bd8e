package fixer

import (
	"bytes"
	"regexp"
	"sync"

	tt "github.com/filacheck/filacheck/internal/types"
)

var (
	// useStatementPattern matches one top-level import line with its newline.
	useStatementPattern = regexp.MustCompile(`(?m)^use\s+[^;]+;[ \t]*\n`)
	// openingTagPattern matches the opening tag and the whitespace after it.
	openingTagPattern = regexp.MustCompile(`(?m)^<\?php\s*`)
)

// ImportAdder emits the violation that inserts a declaration into a file.
// It emits at most one insertion per file over its lifetime, however many
// call sites ask for it. An ImportAdder belongs to a single rule instance.
type ImportAdder struct {
	mu    sync.Mutex
	added map[string]bool

	declPattern *regexp.Regexp
	openPattern *regexp.Regexp
}

// ImportAdderOption configures an ImportAdder.
type ImportAdderOption func(*ImportAdder)

// WithDeclarationPattern sets the per-line pattern matching existing
// declarations of the same kind. Matches must include the trailing newline.
func WithDeclarationPattern(re *regexp.Regexp) ImportAdderOption {
	return func(a *ImportAdder) {
		a.declPattern = re
	}
}

// WithOpeningPattern sets the pattern matching the file opening marker.
func WithOpeningPattern(re *regexp.Regexp) ImportAdderOption {
	return func(a *ImportAdder) {
		a.openPattern = re
	}
}

// NewImportAdder returns an ImportAdder for PHP use statements.
func NewImportAdder(opts ...ImportAdderOption) *ImportAdder {
	a := &ImportAdder{
		added:       make(map[string]bool),
		declPattern: useStatementPattern,
		openPattern: openingTagPattern,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Violation returns the silent insertion of decl into the file of ctx.
// It returns false when decl already appears verbatim in the source or
// when an insertion was already emitted for the file.
func (a *ImportAdder) Violation(decl string, ctx *tt.Context) (tt.Violation, bool) {
	if bytes.Contains(ctx.Source, []byte(decl)) {
		return tt.Violation{}, false
	}

	a.mu.Lock()
	if a.added[ctx.File] {
		a.mu.Unlock()
		return tt.Violation{}, false
	}
	a.added[ctx.File] = true
	a.mu.Unlock()

	offset, text := a.insertionPoint(ctx.Source, decl)

	return tt.Violation{
		Severity: tt.SeverityWarning,
		Message:  "Missing import: " + decl,
		File:     ctx.File,
		Line:     ctx.Line(offset),
		Fixable:  true,
		Edit: &tt.Edit{
			Start:   offset,
			End:     offset,
			NewText: text,
		},
		Silent: true,
	}, true
}

// insertionPoint decides where decl goes and the exact text to insert.
func (a *ImportAdder) insertionPoint(src []byte, decl string) (int, string) {
	text := decl + "\n"

	if matches := a.declPattern.FindAllIndex(src, -1); len(matches) > 0 {
		return matches[len(matches)-1][1], text
	}

	if loc := a.openPattern.FindIndex(src); loc != nil {
		return loc[1], "\n" + text
	}

	return 0, text
}

// Added reports whether an insertion was emitted for file.
func (a *ImportAdder) Added(file string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.added[file]
}
