package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/filacheck/filacheck/internal"
	"github.com/filacheck/filacheck/internal/trie"
	tt "github.com/filacheck/filacheck/internal/types"
)

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".filacheck.yaml"

// LintEngine is what the discovery layer needs from an engine.
type LintEngine interface {
	Run(ctx context.Context, filePath string) ([]tt.Violation, error)
	RunSource(ctx context.Context, path string, source []byte) ([]tt.Violation, error)
	IgnoreRule(rule string)
}

// Processor checks a single file.
type Processor func(ctx context.Context, engine LintEngine, path string) ([]tt.Violation, error)

// export the function New to create a new LintEngine
func New(cfg Config, opts ...internal.EngineOption) (*internal.Engine, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "."
	}
	return internal.NewEngine(basePath, cfg.Rules, opts...)
}

func ProcessFile(ctx context.Context, engine LintEngine, filePath string) ([]tt.Violation, error) {
	return engine.Run(ctx, filePath)
}

func ProcessSource(ctx context.Context, engine LintEngine, path string, source []byte) ([]tt.Violation, error) {
	return engine.RunSource(ctx, path, source)
}

// ProcessFiles runs ProcessPath over each path and concatenates the results
// in argument order.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	filter *PathFilter,
	processor Processor,
) ([]tt.Violation, error) {
	var violations []tt.Violation
	for _, path := range paths {
		found, err := ProcessPath(ctx, logger, engine, path, filter, processor)
		violations = append(violations, found...)
		if err != nil {
			return violations, err
		}
	}
	return violations, nil
}

// ProcessPath checks a file or every matching file below a directory.
// Results come back in discovery order regardless of how the workers
// interleave. A file that fails to process is logged and skipped.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	filter *PathFilter,
	processor Processor,
) ([]tt.Violation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = NewPathFilter(nil, nil)
	}

	files, err := Discover(path, filter)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []tt.Violation{}, nil
	}

	var bar *progressbar.ProgressBar
	if len(files) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = newProgressBar(len(files))
	}

	results := make([][]tt.Violation, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found, err := processor(gctx, engine, file)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Error("error processing file", zap.String("file", file), zap.Error(err))
			}
			results[i] = found
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	violations := make([]tt.Violation, 0)
	for _, found := range results {
		violations = append(violations, found...)
	}
	if waitErr != nil {
		return violations, waitErr
	}
	return violations, ctx.Err()
}

// Discover lists the files ProcessPath would check, in walk order.
func Discover(path string, filter *PathFilter) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if filter.HasDesiredExtension(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(path, p)
		if relErr != nil {
			rel = p
		}
		if d.IsDir() {
			if p != path && filter.IsIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.HasDesiredExtension(p) && !filter.IsIgnored(rel) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}
	return files, nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]Checking files...[reset]"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// PathFilter decides which files discovery keeps.
type PathFilter struct {
	extensions []string
	// prefixes holds the ignore entries matched from the walk root.
	prefixes *trie.PathTrie
	// patterns holds the single segment entries matched anywhere.
	patterns []string
}

// NewPathFilter builds a filter. Without extensions only .php files pass.
// Ignore entries are either a path prefix relative to the walk root
// ("app/Legacy"), a single path segment matched anywhere ("vendor"), or a
// glob matched against the base name ("*.blade.php").
func NewPathFilter(extensions, ignorePaths []string) *PathFilter {
	if len(extensions) == 0 {
		extensions = desiredExtensions
	}
	f := &PathFilter{prefixes: trie.New()}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions = append(f.extensions, ext)
	}
	for _, p := range ignorePaths {
		p = strings.Trim(filepath.ToSlash(filepath.Clean(strings.TrimSpace(p))), "/")
		if p == "." || p == "" {
			continue
		}
		f.prefixes.Add(p)
		if !strings.Contains(p, "/") {
			f.patterns = append(f.patterns, p)
		}
	}
	return f
}

var desiredExtensions = []string{".php"}

func (f *PathFilter) HasDesiredExtension(path string) bool {
	name := strings.ToLower(path)
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsIgnored reports whether rel, a path relative to the walk root, matches
// one of the ignore entries.
func (f *PathFilter) IsIgnored(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if f.prefixes.Match(rel) {
		return true
	}
	segments := strings.Split(rel, "/")
	base := segments[len(segments)-1]
	for _, p := range f.patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		for _, seg := range segments {
			if seg == p {
				return true
			}
		}
	}
	return false
}

// Config is the decoded .filacheck.yaml.
type Config struct {
	Name        string                   `yaml:"name"`
	BasePath    string                   `yaml:"base-path"`
	Extensions  []string                 `yaml:"extensions"`
	IgnorePaths []string                 `yaml:"ignore-paths"`
	Backup      bool                     `yaml:"backup"`
	Rules       map[string]tt.ConfigRule `yaml:"rules"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:        "filacheck",
		BasePath:    ".",
		Extensions:  append([]string(nil), desiredExtensions...),
		IgnorePaths: []string{"vendor", "node_modules", "storage"},
		Rules:       map[string]tt.ConfigRule{},
	}
}

// Filter returns the discovery filter described by the configuration.
func (c Config) Filter() *PathFilter {
	return NewPathFilter(c.Extensions, c.IgnorePaths)
}

// LoadConfig reads the configuration at path. A missing file yields
// DefaultConfig; fields left out of the file keep their default values.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := parseConfigurationFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	f, err := os.Open(configurationPath)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	config := DefaultConfig()
	d := yaml.NewDecoder(f)
	if err := d.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return Config{}, fmt.Errorf("error decoding %s: %w", configurationPath, err)
	}
	if config.Rules == nil {
		config.Rules = map[string]tt.ConfigRule{}
	}
	return config, nil
}
