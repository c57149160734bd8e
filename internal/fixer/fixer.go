package fixer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tt "github.com/filacheck/filacheck/internal/types"
	"go.uber.org/zap"
)

// BackupSuffix is appended to a file path to name its backup.
const BackupSuffix = ".bak"

// ErrOverlappingEdits is matched by the error recorded for a file whose
// fixable violations overlap.
var ErrOverlappingEdits = errors.New("overlapping edits")

// OverlapError reports two edits of one file that share bytes.
type OverlapError struct {
	File   string
	First  tt.Edit
	Second tt.Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: edit [%d, %d) overlaps edit [%d, %d)",
		e.File, e.Second.Start, e.Second.End, e.First.Start, e.First.End)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlappingEdits
}

// Fixer applies the edits carried by violations to the files on disk.
type Fixer struct {
	DryRun bool
	Backup bool
	// Previews requests preview records even when DryRun is false.
	Previews bool
	// BaseDir resolves violation paths that are relative.
	BaseDir string

	logger *zap.Logger
}

type Option func(*Fixer)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Fixer) {
		f.logger = logger
	}
}

func WithBaseDir(dir string) Option {
	return func(f *Fixer) {
		f.BaseDir = dir
	}
}

func WithPreviews(enabled bool) Option {
	return func(f *Fixer) {
		f.Previews = enabled
	}
}

func New(dryRun, backup bool, opts ...Option) *Fixer {
	f := &Fixer{
		DryRun: dryRun,
		Backup: backup,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// pendingEdit is a fixable violation reduced to what the patcher needs.
type pendingEdit struct {
	index int
	line  int
	edit  tt.Edit
}

// Apply fixes every fixable violation, file by file. Violations are never
// modified. Files that cannot be read, or whose edits overlap, are left
// untouched and their violations are counted as skipped. The returned
// error is non-nil only when writing a file or its backup failed; the
// result then holds the files processed so far.
func (f *Fixer) Apply(violations []tt.Violation) (*tt.FixResult, error) {
	result := tt.NewFixResult(f.DryRun)

	files, grouped := groupByFile(violations)
	for _, file := range files {
		path := f.resolve(file, grouped[file])
		result.Paths[file] = path
		fr, previews, err := f.fixFile(file, path, grouped[file])
		if err != nil {
			return result, err
		}
		result.Record(file, fr)
		if len(previews) > 0 {
			result.Previews[file] = previews
		}
	}

	return result, nil
}

func (f *Fixer) fixFile(file, path string, violations []tt.Violation) (tt.FileResult, []tt.Preview, error) {
	info, err := os.Stat(path)
	if err != nil {
		f.logger.Warn("skipping file", zap.String("file", path), zap.Error(err))
		return tt.FileResult{Skipped: len(violations), Err: err}, nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		f.logger.Warn("skipping unreadable file", zap.String("file", path), zap.Error(err))
		return tt.FileResult{Skipped: len(violations), Err: err}, nil, nil
	}

	edits := fixableEdits(violations, len(content))
	skipped := len(violations) - len(edits)
	if len(edits) == 0 {
		return tt.FileResult{Skipped: skipped}, nil, nil
	}

	sortEdits(edits)
	if err := checkOverlaps(file, edits); err != nil {
		f.logger.Warn("skipping file with overlapping edits", zap.String("file", path), zap.Error(err))
		return tt.FileResult{Skipped: len(violations), Err: err}, nil, nil
	}

	var previews []tt.Preview
	if f.DryRun || f.Previews {
		previews = buildPreviews(content, edits)
	}

	fixed := applyEdits(content, edits)

	if !f.DryRun {
		mode := info.Mode().Perm()
		if f.Backup {
			if err := writeFileAtomic(path+BackupSuffix, content, mode); err != nil {
				return tt.FileResult{}, nil, fmt.Errorf("writing backup of %s: %w", path, err)
			}
		}
		if err := writeFileAtomic(path, fixed, mode); err != nil {
			return tt.FileResult{}, nil, fmt.Errorf("writing %s: %w", path, err)
		}
	}

	f.logger.Debug("fixed file",
		zap.String("file", path),
		zap.Int("fixed", len(edits)),
		zap.Int("skipped", skipped),
		zap.Bool("dry_run", f.DryRun))

	return tt.FileResult{Fixed: len(edits), Skipped: skipped}, previews, nil
}

// resolve prefers the path the engine read the file from. BaseDir only
// applies to violations that do not carry one.
func (f *Fixer) resolve(file string, violations []tt.Violation) string {
	for _, v := range violations {
		if v.Path != "" {
			return v.Path
		}
	}
	return tt.ResolvePath(file, f.BaseDir)
}

// groupByFile groups violations by file, keeping files in order of
// first appearance.
func groupByFile(violations []tt.Violation) ([]string, map[string][]tt.Violation) {
	var files []string
	grouped := make(map[string][]tt.Violation)
	for _, v := range violations {
		if _, ok := grouped[v.File]; !ok {
			files = append(files, v.File)
		}
		grouped[v.File] = append(grouped[v.File], v)
	}
	return files, grouped
}

// fixableEdits keeps the violations whose edit fits in a source of size n.
func fixableEdits(violations []tt.Violation, n int) []pendingEdit {
	edits := make([]pendingEdit, 0, len(violations))
	for i, v := range violations {
		if !v.CanFix() || v.Edit.End > n {
			continue
		}
		edits = append(edits, pendingEdit{index: i, line: v.Line, edit: *v.Edit})
	}
	return edits
}

// sortEdits orders edits from the end of the file to its start. Among
// edits sharing a start, replacements come before insertions, and later
// violations before earlier ones, so insertions at one offset end up in
// violation order in front of the replaced text.
func sortEdits(edits []pendingEdit) {
	sort.Slice(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.edit.Start != b.edit.Start {
			return a.edit.Start > b.edit.Start
		}
		if a.edit.End != b.edit.End {
			return a.edit.End > b.edit.End
		}
		return a.index > b.index
	})
}

// checkOverlaps expects edits sorted by sortEdits. Each edit must end at
// or before the start of the edit applied just before it.
func checkOverlaps(file string, edits []pendingEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1].edit, edits[i].edit
		if cur.End > prev.Start {
			return &OverlapError{File: file, First: prev, Second: cur}
		}
	}
	return nil
}

// buildPreviews records the edits against the unmodified content, in
// document order.
func buildPreviews(content []byte, edits []pendingEdit) []tt.Preview {
	previews := make([]tt.Preview, 0, len(edits))
	for i := len(edits) - 1; i >= 0; i-- {
		pe := edits[i]
		lineStart := bytes.LastIndexByte(content[:pe.edit.Start], '\n') + 1
		line := pe.line
		if line <= 0 {
			line = tt.LineFromOffset(content, pe.edit.Start)
		}
		previews = append(previews, tt.Preview{
			Line:   line,
			Column: pe.edit.Start - lineStart + 1,
			Offset: pe.edit.Start,
			From:   string(content[pe.edit.Start:pe.edit.End]),
			To:     pe.edit.NewText,
		})
	}
	return previews
}

// applyEdits splices edits, sorted by sortEdits, into a copy of content.
// Every edit only touches bytes before those of the edits applied ahead
// of it, so its offsets are still valid in the partially patched buffer.
func applyEdits(content []byte, edits []pendingEdit) []byte {
	out := content
	for _, pe := range edits {
		e := pe.edit
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.NewText))
		next = append(next, out[:e.Start]...)
		next = append(next, e.NewText...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, so a failed write leaves the previous content in place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}
