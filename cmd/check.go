package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filacheck/filacheck/formatter"
	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
	"github.com/filacheck/filacheck/lint"
)

var (
	ignoreRules   string
	ignorePaths   string
	detailed      bool
	jsonOutput    bool
	outPath       string
	stdinFilename string
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report deprecated Filament code",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := checkOptions{
			runOptions: currentRunOptions(),
			paths:      args,
			detailed:   detailed,
			json:       jsonOutput,
			output:     outPath,
			stdinPath:  stdinFilename,
		}
		return runCheck(ctx, logger, cmd.OutOrStdout(), cmd.InOrStdin(), opts)
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	checkCmd.Flags().BoolVar(&detailed, "detailed", false, "Group the report by rule category")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output violations in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().StringVar(&stdinFilename, "stdin-filename", "", "Check source read from stdin as if it were this file")
}

// runOptions are the settings shared by every command that checks files.
type runOptions struct {
	configPath  string
	cacheDir    string
	ignoreRules []string
	ignorePaths []string
}

func currentRunOptions() runOptions {
	return runOptions{
		configPath:  cfgFile,
		cacheDir:    cacheDir,
		ignoreRules: splitList(ignoreRules),
		ignorePaths: splitList(ignorePaths),
	}
}

type checkOptions struct {
	runOptions
	paths     []string
	detailed  bool
	json      bool
	output    string
	stdinPath string
}

// environment is the configuration and engine a command runs with.
type environment struct {
	config lint.Config
	engine *internal.Engine
	cache  *internal.Cache
	logger *zap.Logger
}

func newEnvironment(logger *zap.Logger, opts runOptions) (*environment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := lint.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.IgnorePaths = append(cfg.IgnorePaths, opts.ignorePaths...)

	env := &environment{config: cfg, logger: logger}
	engineOpts := []internal.EngineOption{internal.WithLogger(logger)}
	if opts.cacheDir != "" {
		if len(opts.ignoreRules) > 0 {
			logger.Debug("cache disabled because rules are ignored from the command line")
		} else {
			cache, err := internal.NewCache(opts.cacheDir,
				internal.WithDependencies(opts.configPath),
				internal.WithFingerprint(strings.Join(internal.RuleNames(), ",")),
			)
			if err != nil {
				return nil, err
			}
			env.cache = cache
			engineOpts = append(engineOpts, internal.WithCache(cache))
		}
	}

	engine, err := lint.New(cfg, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	for _, rule := range opts.ignoreRules {
		engine.IgnoreRule(rule)
	}
	env.engine = engine
	return env, nil
}

func (e *environment) basePath() string {
	if e.config.BasePath == "" {
		return "."
	}
	return e.config.BasePath
}

func (e *environment) close() {
	if e.cache == nil {
		return
	}
	if err := e.cache.Save(); err != nil {
		e.logger.Warn("failed to save cache", zap.Error(err))
	}
}

// collect checks the given paths, or the source read from stdin when
// stdinPath is set.
func (e *environment) collect(ctx context.Context, paths []string, stdin io.Reader, stdinPath string) ([]tt.Violation, error) {
	if stdinPath != "" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return lint.ProcessSource(ctx, e.engine, stdinPath, src)
	}
	if len(paths) == 0 {
		return nil, errors.New("please provide file or directory paths")
	}
	return lint.ProcessFiles(ctx, e.logger, e.engine, paths, e.config.Filter(), lint.ProcessFile)
}

func runCheck(ctx context.Context, logger *zap.Logger, stdout io.Writer, stdin io.Reader, opts checkOptions) error {
	env, err := newEnvironment(logger, opts.runOptions)
	if err != nil {
		return err
	}
	defer env.close()

	violations, err := env.collect(ctx, opts.paths, stdin, opts.stdinPath)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	if opts.json {
		if err := writeJSONOutput(stdout, opts.output, func(w io.Writer) error {
			return formatter.WriteJSON(w, violations)
		}); err != nil {
			return err
		}
	} else {
		formatter.NewReporter(stdout,
			formatter.WithDetailed(opts.detailed),
			formatter.WithReportBaseDir(env.basePath()),
		).Report(env.engine.Rules(), violations)
	}

	if len(violations) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// writeJSONOutput writes to the file at path, or to stdout when path is empty.
func writeJSONOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
