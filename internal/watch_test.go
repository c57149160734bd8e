package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watchReport struct {
	file       string
	violations []tt.Violation
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	tmpDir := createTempDir(t, "watch-test")
	vendor := filepath.Join(tmpDir, "vendor")
	require.NoError(t, os.MkdirAll(vendor, 0o755))

	reports := make(chan watchReport, 16)
	w := NewWatcher(
		[]string{tmpDir},
		func() (*Engine, error) { return NewEngine(tmpDir, nil) },
		func(file string, violations []tt.Violation) {
			reports <- watchReport{file: file, violations: violations}
		},
		WithFileFilter(func(path string) bool { return strings.HasSuffix(path, ".php") }),
		WithDirFilter(func(path string) bool { return filepath.Base(path) == "vendor" }),
		WithDebounce(20*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	file := filepath.Join(tmpDir, "Form.php")
	ignored := filepath.Join(tmpDir, "notes.txt")

	var got watchReport
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
wait:
	for {
		select {
		case got = <-reports:
			break wait
		case <-ticker.C:
			// the watcher may not be registered yet, so keep writing
			require.NoError(t, os.WriteFile(ignored, []byte("x"), 0o644))
			require.NoError(t, os.WriteFile(filepath.Join(vendor, "Lib.php"), []byte(`<?php $a->reactive();`), 0o644))
			require.NoError(t, os.WriteFile(file, []byte(`<?php $input->reactive();`), 0o644))
		case <-deadline:
			t.Fatal("no report received")
		}
	}

	cancel()
	assert.NoError(t, <-done)

	assert.Equal(t, file, got.file)
	require.Len(t, got.violations, 1)
	assert.Equal(t, "deprecated-reactive", got.violations[0].Rule)

	close(reports)
	for r := range reports {
		assert.Equal(t, file, r.file)
	}
}
