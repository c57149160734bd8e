package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filacheck/filacheck/formatter"
	"github.com/filacheck/filacheck/internal/fixer"
	tt "github.com/filacheck/filacheck/internal/types"
)

var (
	dryRun     bool
	backup     bool
	showDiff   bool
	fixJSONOut bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Automatically fix issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := fixOptions{
			runOptions: currentRunOptions(),
			paths:      args,
			dryRun:     dryRun,
			backup:     backup,
			diff:       showDiff,
			json:       fixJSONOut,
		}
		return runFix(ctx, logger, cmd.OutOrStdout(), opts)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().BoolVar(&backup, "backup", false, "Keep a "+fixer.BackupSuffix+" copy of every file that is changed")
	fixCmd.Flags().BoolVar(&showDiff, "diff", false, "Print the proposed fixes as a unified diff (implies --dry-run)")
	fixCmd.Flags().BoolVar(&fixJSONOut, "json", false, "Output violations and fix results in JSON format")
	fixCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	fixCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

type fixOptions struct {
	runOptions
	paths  []string
	dryRun bool
	backup bool
	diff   bool
	json   bool
}

// runFix checks the paths, applies every fixable violation and reports the
// outcome. The run fails when any violation is left unresolved or a file
// could not be written.
func runFix(ctx context.Context, logger *zap.Logger, stdout io.Writer, opts fixOptions) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	// unified diffs are computed against the unmodified files
	if opts.diff {
		opts.dryRun = true
	}

	env, err := newEnvironment(logger, opts.runOptions)
	if err != nil {
		return err
	}
	defer env.close()

	violations, err := env.collect(ctx, opts.paths, nil, "")
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	f := fixer.New(opts.dryRun, opts.backup || env.config.Backup,
		fixer.WithLogger(logger),
		fixer.WithBaseDir(env.basePath()),
		fixer.WithPreviews(opts.json),
	)
	result, applyErr := f.Apply(violations)
	if result == nil {
		result = tt.NewFixResult(opts.dryRun)
	}
	for _, err := range result.Errors() {
		logger.Warn("file left unchanged", zap.Error(err))
	}

	switch {
	case opts.json:
		if err := formatter.WriteFixJSON(stdout, violations, result); err != nil {
			return err
		}
	case opts.diff:
		out, err := formatter.UnifiedDiff(result, env.basePath())
		if err != nil {
			return err
		}
		if _, err := stdout.Write(out); err != nil {
			return err
		}
	default:
		formatter.NewReporter(stdout, formatter.WithReportBaseDir(env.basePath())).
			ReportWithFixes(env.engine.Rules(), violations, result, formatter.NewPreviewSet(result, env.basePath()))
	}

	if applyErr != nil {
		return fmt.Errorf("error applying fixes: %w", applyErr)
	}
	if result.Skipped > 0 {
		return ErrIssuesFound
	}
	return nil
}
