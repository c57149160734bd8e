package types

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Severity represents the severity level of a violation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "ERROR":
		*s = SeverityError
	case "WARNING":
		*s = SeverityWarning
	case "INFO":
		*s = SeverityInfo
	case "OFF":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// ConfigRule is the per-rule entry of the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Edit replaces the half-open byte range [Start, End) of the original
// source with NewText. Start == End is a pure insertion.
type Edit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

func (e Edit) IsInsertion() bool {
	return e.Start == e.End
}

// Valid reports whether the edit describes a well formed range.
func (e Edit) Valid() bool {
	return e.Start >= 0 && e.Start <= e.End
}

// Violation represents a single finding reported by a rule.
type Violation struct {
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Suggestion string   `json:"suggestion,omitempty"`
	// Rule is stamped by the engine; rules leave it empty.
	Rule    string `json:"rule"`
	Fixable bool   `json:"fixable"`
	// Edit offsets are relative to the unmodified source the violation
	// was produced from.
	Edit *Edit `json:"edit,omitempty"`
	// Silent violations take part in fixing and totals but are not
	// listed on their own.
	Silent bool `json:"silent,omitempty"`
	// Path is where the file was read from, stamped by the engine. File
	// may be relative to the base path while Path is not.
	Path string `json:"-"`
}

// CanFix reports whether the violation carries a usable edit.
// A violation flagged fixable without a valid edit is not fixable.
func (v Violation) CanFix() bool {
	return v.Fixable && v.Edit != nil && v.Edit.Valid()
}

// Context is the read-only per-file bundle handed to every rule.
type Context struct {
	// Path is the location of the file on disk.
	Path string
	// File is Path made relative to BasePath when possible. It is the
	// value rules put into Violation.File.
	File     string
	Source   []byte
	BasePath string
}

func NewContext(path string, source []byte, basePath string) *Context {
	return &Context{
		Path:     path,
		File:     RelativePath(path, basePath),
		Source:   source,
		BasePath: basePath,
	}
}

// Line returns the 1-based line of offset in the context source.
func (c *Context) Line(offset int) int {
	return LineFromOffset(c.Source, offset)
}

// Text returns the source between start and end.
func (c *Context) Text(start, end int) string {
	if start < 0 || end > len(c.Source) || start > end {
		return ""
	}
	return string(c.Source[start:end])
}

// LineFromOffset counts newlines before offset. Offsets outside the
// source are clamped.
func LineFromOffset(src []byte, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.Count(src[:offset], []byte{'\n'}) + 1
}

// RelativePath returns path relative to base when path lies under base.
// Otherwise path is returned unchanged.
// ResolvePath joins base onto a relative file name.
func ResolvePath(file, base string) string {
	if base == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

func RelativePath(path, base string) string {
	if base == "" {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
