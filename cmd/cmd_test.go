package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filacheck/filacheck/internal"
	"github.com/filacheck/filacheck/internal/fixer"
	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/filacheck/filacheck/lint"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const (
	reactiveSource    = "<?php\n\nTextInput::make('title')->reactive();\n"
	placeholderSource = "<?php\n\nPlaceholder::make('total');\n"
)

// setupProject writes files into a temporary project and a configuration
// whose base path is the project root.
func setupProject(t *testing.T, files map[string]string) (dir, config string) {
	t.Helper()
	dir = t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	config = filepath.Join(dir, lint.DefaultConfigFile)
	require.NoError(t, os.WriteFile(config, []byte("base-path: "+dir+"\n"), 0o644))
	return dir, config
}

func TestRunCheck(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{
		"app/Form.php":         reactiveSource,
		"vendor/lib/Lib.php":   reactiveSource,
		"app/Clean.php":        "<?php\n\nTextInput::make('title')->live();\n",
		"resources/readme.txt": "->reactive()",
	})

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, nil, checkOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
	})

	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out.String(), "deprecated-reactive")
	assert.Contains(t, out.String(), filepath.Join("app", "Form.php"))
	assert.NotContains(t, out.String(), "Lib.php")
}

func TestRunCheckClean(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{
		"app/Form.php": "<?php\n\nTextInput::make('title')->live();\n",
	})

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, nil, checkOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "rules passed!")
}

func TestRunCheckIgnoreRules(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, nil, checkOptions{
		runOptions: runOptions{configPath: config, ignoreRules: []string{"deprecated-reactive"}},
		paths:      []string{dir},
	})

	require.NoError(t, err)
	assert.NotContains(t, out.String(), "deprecated-reactive")
}

func TestRunCheckSeverityOff(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})
	require.NoError(t, os.WriteFile(config,
		[]byte("base-path: "+dir+"\nrules:\n  deprecated-reactive:\n    severity: OFF\n"), 0o644))

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, nil, checkOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
	})

	require.NoError(t, err)
}

func TestRunCheckJSONOutput(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})
	output := filepath.Join(t.TempDir(), "report.json")

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, nil, checkOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		json:       true,
		output:     output,
	})
	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var decoded map[string][]tt.Violation
	require.NoError(t, json.Unmarshal(data, &decoded))
	violations := decoded[filepath.Join("app", "Form.php")]
	require.Len(t, violations, 1)
	assert.Equal(t, "deprecated-reactive", violations[0].Rule)
	assert.Equal(t, 3, violations[0].Line)
}

func TestRunCheckStdin(t *testing.T) {
	t.Parallel()
	_, config := setupProject(t, nil)

	var out bytes.Buffer
	err := runCheck(context.Background(), nil, &out, strings.NewReader(placeholderSource), checkOptions{
		runOptions: runOptions{configPath: config},
		stdinPath:  "app/Form.php",
	})

	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out.String(), "deprecated-placeholder")
}

func TestRunCheckNoPaths(t *testing.T) {
	t.Parallel()
	_, config := setupProject(t, nil)

	err := runCheck(context.Background(), nil, &bytes.Buffer{}, nil, checkOptions{
		runOptions: runOptions{configPath: config},
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrIssuesFound)
}

func TestRunCheckWithCache(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})
	cache := t.TempDir()

	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		err := runCheck(context.Background(), nil, &out, nil, checkOptions{
			runOptions: runOptions{configPath: config, cacheDir: cache},
			paths:      []string{dir},
		})
		assert.ErrorIs(t, err, ErrIssuesFound)
		assert.Contains(t, out.String(), "deprecated-reactive")
	}
}

func TestRunFix(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "All issues have been fixed!")
	content, err := os.ReadFile(filepath.Join(dir, "app", "Form.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php\n\nTextInput::make('title')->live();\n", string(content))
	assert.NoFileExists(t, filepath.Join(dir, "app", "Form.php"+fixer.BackupSuffix))
}

func TestRunFixBackup(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	err := runFix(context.Background(), nil, &bytes.Buffer{}, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		backup:     true,
	})

	require.NoError(t, err)
	backup, err := os.ReadFile(filepath.Join(dir, "app", "Form.php"+fixer.BackupSuffix))
	require.NoError(t, err)
	assert.Equal(t, reactiveSource, string(backup))
}

// chdir switches the working directory for the rest of the test. Tests
// using it cannot run in parallel.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}

func TestRunFixOutsideBasePath(t *testing.T) {
	dir, config := setupProject(t, map[string]string{
		"app/Form.php":   reactiveSource,
		"other/Form.php": reactiveSource,
	})
	require.NoError(t, os.WriteFile(config, []byte("base-path: app\n"), 0o644))
	chdir(t, dir)

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: lint.DefaultConfigFile},
		paths:      []string{"other", "app"},
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "All issues have been fixed!")
	for _, name := range []string{"other/Form.php", "app/Form.php"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "<?php\n\nTextInput::make('title')->live();\n", string(content), name)
	}
}

func TestRunFixWriteFailure(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})
	// a directory where the backup goes makes the backup write fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "app", "Form.php"+fixer.BackupSuffix), 0o755))

	err := runFix(context.Background(), nil, &bytes.Buffer{}, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		backup:     true,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error applying fixes")
	assert.NotErrorIs(t, err, ErrIssuesFound)
	content, err := os.ReadFile(filepath.Join(dir, "app", "Form.php"))
	require.NoError(t, err)
	assert.Equal(t, reactiveSource, string(content))
}

func TestRunFixManualIssues(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": placeholderSource})

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
	})

	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out.String(), "require manual attention")
}

func TestRunFixDryRun(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		dryRun:     true,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Proposed file changes:")
	assert.Contains(t, out.String(), "+ TextInput::make('title')->live();")
	content, err := os.ReadFile(filepath.Join(dir, "app", "Form.php"))
	require.NoError(t, err)
	assert.Equal(t, reactiveSource, string(content))
}

func TestRunFixDiff(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		diff:       true,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "--- a/app/Form.php")
	assert.Contains(t, out.String(), "+++ b/app/Form.php")
	assert.Contains(t, out.String(), "-TextInput::make('title')->reactive();")
	assert.Contains(t, out.String(), "+TextInput::make('title')->live();")

	content, err := os.ReadFile(filepath.Join(dir, "app", "Form.php"))
	require.NoError(t, err)
	assert.Equal(t, reactiveSource, string(content))
}

func TestRunFixJSON(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})

	var out bytes.Buffer
	err := runFix(context.Background(), nil, &out, fixOptions{
		runOptions: runOptions{configPath: config},
		paths:      []string{dir},
		json:       true,
	})
	require.NoError(t, err)

	var decoded struct {
		Violations map[string][]tt.Violation `json:"violations"`
		Fix        tt.FixResult              `json:"fix"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Len(t, decoded.Violations, 1)
	assert.Equal(t, 1, decoded.Fix.Fixed)
	assert.False(t, decoded.Fix.DryRun)
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), lint.DefaultConfigFile)

	require.NoError(t, initConfigurationFile(path, false))
	assert.ErrorIs(t, initConfigurationFile(path, false), os.ErrExist)
	require.NoError(t, initConfigurationFile(path, true))

	cfg, err := lint.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultConfig().IgnorePaths, cfg.IgnorePaths)
	assert.Len(t, cfg.Rules, len(internal.RuleNames()))
	for _, name := range internal.RuleNames() {
		assert.Equal(t, tt.SeverityWarning, cfg.Rules[name].Severity, name)
	}
}

func TestListRules(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, listRules(&out, internal.DefaultRules()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(internal.RuleNames())+1)
	assert.True(t, strings.HasPrefix(lines[0], "RULE"))
	for i, name := range internal.RuleNames() {
		assert.True(t, strings.HasPrefix(lines[i+1], name+" "), lines[i+1])
	}
	assert.Contains(t, out.String(), "deprecated-placeholder")
}

func TestRunWatchStopsWithContext(t *testing.T) {
	t.Parallel()
	dir, config := setupProject(t, map[string]string{"app/Form.php": reactiveSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runWatch(ctx, nil, &out, []string{filepath.Join(dir, "app", "Form.php")}, runOptions{configPath: config})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Watching 1 director(ies)")
}

func TestRunWatchMissingPath(t *testing.T) {
	t.Parallel()
	_, config := setupProject(t, nil)

	err := runWatch(context.Background(), nil, &bytes.Buffer{}, []string{"does-not-exist"}, runOptions{configPath: config})

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}
