package formatter

import (
	"sort"
	"strings"

	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
)

// PreviewSet hands out the previews of a fix pass while a report is
// rendered. Every preview is handed out at most once.
type PreviewSet struct {
	baseDir  string
	result   *tt.FixResult
	previews map[string][]tt.Preview
	consumed map[string][]bool
	sources  map[string]*internal.SourceCode
}

// NewPreviewSet wraps the previews of result. Relative file names are
// resolved against baseDir when source lines are needed.
func NewPreviewSet(result *tt.FixResult, baseDir string) *PreviewSet {
	p := &PreviewSet{
		baseDir:  baseDir,
		result:   result,
		previews: map[string][]tt.Preview{},
		consumed: map[string][]bool{},
		sources:  map[string]*internal.SourceCode{},
	}
	if result != nil && result.Previews != nil {
		p.previews = result.Previews
	}
	return p
}

// Consume returns the not yet consumed previews of file recorded for line.
// With includeRemaining, every other unconsumed preview of the file is
// returned as well. The result is ordered by line, then column.
func (p *PreviewSet) Consume(file string, line int, includeRemaining bool) []tt.Preview {
	all := p.previews[file]
	if len(all) == 0 {
		return nil
	}
	done := p.consumed[file]
	if done == nil {
		done = make([]bool, len(all))
		p.consumed[file] = done
	}

	var out []tt.Preview
	for i, change := range all {
		if done[i] || change.Line != line {
			continue
		}
		out = append(out, change)
		done[i] = true
	}
	if includeRemaining {
		for i, change := range all {
			if done[i] {
				continue
			}
			out = append(out, change)
			done[i] = true
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// Remaining returns how many previews of file were not consumed yet.
func (p *PreviewSet) Remaining(file string) int {
	n := 0
	done := p.consumed[file]
	for i := range p.previews[file] {
		if done == nil || !done[i] {
			n++
		}
	}
	return n
}

// DiffLine is one removed or added line of a rendered change.
// Text[HighlightStart:HighlightEnd] is the changed segment.
type DiffLine struct {
	Added          bool
	Text           string
	HighlightStart int
	HighlightEnd   int
}

// Segments splits the line around its highlighted part.
func (d DiffLine) Segments() (before, changed, after string) {
	if d.HighlightStart < 0 || d.HighlightEnd > len(d.Text) || d.HighlightStart >= d.HighlightEnd {
		return d.Text, "", ""
	}
	return d.Text[:d.HighlightStart], d.Text[d.HighlightStart:d.HighlightEnd], d.Text[d.HighlightEnd:]
}

// RenderChange rebuilds the before and after lines of change from the
// current content of file, with the shared leading whitespace removed.
func (p *PreviewSet) RenderChange(file string, change tt.Preview) []DiffLine {
	return p.changeLines(file, change, true)
}

func (p *PreviewSet) changeLines(file string, change tt.Preview, trim bool) []DiffLine {
	current := p.line(file, change.Line)
	display := current
	if trim {
		display = strings.TrimLeft(current, " \t")
	}
	column := max(1, change.Column-(len(current)-len(display)))

	var out []DiffLine
	if change.From != "" {
		removed := DiffLine{Text: display}
		if at, ok := locate(display, column, change.From); ok {
			removed.HighlightStart, removed.HighlightEnd = at, at+len(change.From)
		}
		out = append(out, removed)
	}
	if change.To == "" {
		return out
	}

	if change.From == "" && strings.Contains(change.To, "\n") {
		for _, l := range strings.Split(strings.TrimRight(change.To, "\r\n"), "\n") {
			l = strings.TrimSuffix(l, "\r")
			if trim {
				l = strings.TrimLeft(l, " \t")
			}
			out = append(out, DiffLine{Added: true, Text: l, HighlightEnd: len(l)})
		}
		return out
	}

	text, at := buildNewLine(display, column, change.From, change.To)
	added := DiffLine{Added: true, Text: text}
	if at < 0 {
		at = strings.Index(text, change.To)
	}
	if at >= 0 {
		added.HighlightStart, added.HighlightEnd = at, at+len(change.To)
	}
	return append(out, added)
}

// locate finds segment at the 1-based column of line, falling back to the
// first occurrence when the column is stale.
func locate(line string, column int, segment string) (int, bool) {
	offset := column - 1
	if offset >= 0 && offset <= len(line) && strings.HasPrefix(line[offset:], segment) {
		return offset, true
	}
	if i := strings.Index(line, segment); i >= 0 {
		return i, true
	}
	return 0, false
}

// buildNewLine applies from -> to on line and returns the new line together
// with the offset of to, or -1 when from could not be found.
func buildNewLine(line string, column int, from, to string) (string, int) {
	offset := min(max(0, column-1), len(line))
	if from == "" {
		return line[:offset] + to + line[offset:], offset
	}
	at, ok := locate(line, column, from)
	if !ok {
		return line, -1
	}
	return line[:at] + to + line[at+len(from):], at
}

func (p *PreviewSet) line(file string, n int) string {
	src, ok := p.sources[file]
	if !ok {
		src, _ = internal.ReadSourceCode(p.result.Path(file, p.baseDir))
		p.sources[file] = src
	}
	return src.Line(n)
}
