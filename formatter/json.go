package formatter

import (
	"encoding/json"
	"io"

	tt "github.com/filacheck/filacheck/internal/types"
)

type fixOutput struct {
	Violations map[string][]tt.Violation `json:"violations"`
	Fix        *tt.FixResult             `json:"fix"`
}

// WriteJSON writes the listed violations grouped by file.
func WriteJSON(w io.Writer, violations []tt.Violation) error {
	d, err := json.Marshal(groupByFile(violations))
	if err != nil {
		return err
	}
	_, err = w.Write(append(d, '\n'))
	return err
}

// WriteFixJSON writes the violations of a fix run together with its result.
func WriteFixJSON(w io.Writer, violations []tt.Violation, result *tt.FixResult) error {
	d, err := json.Marshal(fixOutput{Violations: groupByFile(violations), Fix: result})
	if err != nil {
		return err
	}
	_, err = w.Write(append(d, '\n'))
	return err
}

func groupByFile(violations []tt.Violation) map[string][]tt.Violation {
	grouped := make(map[string][]tt.Violation)
	for _, v := range visible(violations) {
		grouped[v.File] = append(grouped[v.File], v)
	}
	return grouped
}
