package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	tt "github.com/filacheck/filacheck/internal/types"
)

// UnifiedDiff renders the previews of a dry run as a unified diff against
// the files on disk. Previews touching the same lines share a hunk.
// It returns nil when there is nothing to show.
func UnifiedDiff(result *tt.FixResult, baseDir string) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	var diffs []*diff.FileDiff
	for _, file := range result.Files {
		previews := result.Previews[file]
		if len(previews) == 0 {
			continue
		}
		content, err := os.ReadFile(result.Path(file, baseDir))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		name := filepath.ToSlash(file)
		diffs = append(diffs, &diff.FileDiff{
			OrigName: "a/" + name,
			NewName:  "b/" + name,
			Hunks:    buildHunks(content, previews),
		})
	}
	if len(diffs) == 0 {
		return nil, nil
	}
	return diff.PrintMultiFileDiff(diffs)
}

type hunkSpan struct {
	first, last int
	changes     []tt.Preview
}

func buildHunks(content []byte, previews []tt.Preview) []*diff.Hunk {
	changes := append([]tt.Preview(nil), previews...)
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Offset < changes[j].Offset
	})

	starts := lineStarts(content)
	lineOf := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	var spans []hunkSpan
	for _, c := range changes {
		if c.Offset < 0 || c.Offset+len(c.From) > len(content) {
			continue
		}
		first := lineOf(c.Offset)
		last := first
		if c.From != "" {
			last = lineOf(c.Offset + len(c.From) - 1)
		}
		if n := len(spans); n > 0 && first <= spans[n-1].last {
			spans[n-1].last = max(spans[n-1].last, last)
			spans[n-1].changes = append(spans[n-1].changes, c)
			continue
		}
		spans = append(spans, hunkSpan{first: first, last: last, changes: []tt.Preview{c}})
	}

	hunks := make([]*diff.Hunk, 0, len(spans))
	delta := 0
	for _, s := range spans {
		begin := starts[s.first]
		end := len(content)
		if s.last+1 < len(starts) {
			end = starts[s.last+1]
		}
		orig := string(content[begin:end])
		patched := orig
		for i := len(s.changes) - 1; i >= 0; i-- {
			c := s.changes[i]
			at := c.Offset - begin
			patched = patched[:at] + c.To + patched[at+len(c.From):]
		}

		origLines := splitLines(orig)
		newLines := splitLines(patched)
		var body bytes.Buffer
		for _, l := range origLines {
			body.WriteString("-" + l + "\n")
		}
		for _, l := range newLines {
			body.WriteString("+" + l + "\n")
		}

		origStart := s.first + 1
		if len(origLines) == 0 {
			origStart = s.first
		}
		newStart := s.first + 1 + delta
		if len(newLines) == 0 {
			newStart--
		}
		hunks = append(hunks, &diff.Hunk{
			OrigStartLine: int32(origStart),
			OrigLines:     int32(len(origLines)),
			NewStartLine:  int32(newStart),
			NewLines:      int32(len(newLines)),
			Body:          body.Bytes(),
		})
		delta += len(newLines) - len(origLines)
	}
	return hunks
}

func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
