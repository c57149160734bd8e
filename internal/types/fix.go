package types

// Preview describes one edit of a fix pass, captured before the file
// buffer was mutated.
type Preview struct {
	// Line is the reported line of the violation the edit belongs to.
	Line int `json:"line"`
	// Column is 1-based and measured in bytes from the start of the line
	// containing Offset.
	Column int    `json:"column"`
	Offset int    `json:"offset"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// FileResult holds the fix counts of a single file.
type FileResult struct {
	Fixed   int   `json:"fixed"`
	Skipped int   `json:"skipped"`
	Err     error `json:"-"`
}

// FixResult aggregates a whole fix pass.
type FixResult struct {
	Fixed   int                   `json:"fixed"`
	Skipped int                   `json:"skipped"`
	ByFile  map[string]FileResult `json:"byFile"`
	// Files lists the keys of ByFile in order of first appearance.
	Files    []string             `json:"files"`
	DryRun   bool                 `json:"dryRun"`
	Previews map[string][]Preview `json:"previews,omitempty"`
	// Paths maps the keys of ByFile to the files read on disk.
	Paths map[string]string `json:"-"`
}

func NewFixResult(dryRun bool) *FixResult {
	return &FixResult{
		ByFile:   make(map[string]FileResult),
		DryRun:   dryRun,
		Previews: make(map[string][]Preview),
		Paths:    make(map[string]string),
	}
}

// Path returns where file was read from during the pass, or file
// resolved against baseDir when the pass did not record it.
func (r *FixResult) Path(file, baseDir string) string {
	if r != nil {
		if path, ok := r.Paths[file]; ok {
			return path
		}
	}
	return ResolvePath(file, baseDir)
}

// Record stores the result of file and adds its counts to the totals.
func (r *FixResult) Record(file string, fr FileResult) {
	if _, ok := r.ByFile[file]; !ok {
		r.Files = append(r.Files, file)
	}
	r.ByFile[file] = fr
	r.Fixed += fr.Fixed
	r.Skipped += fr.Skipped
}

// Errors returns the per-file errors in file order.
func (r *FixResult) Errors() []error {
	var errs []error
	for _, file := range r.Files {
		if err := r.ByFile[file].Err; err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
