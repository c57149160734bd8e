package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filacheck/filacheck/formatter"
	"github.com/filacheck/filacheck/internal"
	tt "github.com/filacheck/filacheck/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-check files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, logger, cmd.OutOrStdout(), args, currentRunOptions())
	},
}

func init() {
	watchCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	watchCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

// runWatch reports changed files until ctx is done. The configuration is
// read again for every batch of changes.
func runWatch(ctx context.Context, logger *zap.Logger, stdout io.Writer, paths []string, opts runOptions) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	// results of a watch session are never cached
	opts.cacheDir = ""

	env, err := newEnvironment(logger, opts)
	if err != nil {
		return err
	}
	filter := env.config.Filter()
	base := env.basePath()

	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", p, err)
		}
		if !info.IsDir() {
			p = filepath.Dir(p)
		}
		dirs = append(dirs, p)
	}

	reporter := formatter.NewReporter(stdout, formatter.WithReportBaseDir(base))
	w := internal.NewWatcher(dirs,
		func() (*internal.Engine, error) {
			env, err := newEnvironment(logger, opts)
			if err != nil {
				return nil, err
			}
			return env.engine, nil
		},
		func(file string, violations []tt.Violation) {
			reporter.ReportFile(tt.RelativePath(file, base), violations)
		},
		internal.WithWatchLogger(logger),
		internal.WithFileFilter(func(path string) bool {
			return filter.HasDesiredExtension(path) && !filter.IsIgnored(tt.RelativePath(path, base))
		}),
		internal.WithDirFilter(func(path string) bool {
			return filter.IsIgnored(tt.RelativePath(path, base))
		}),
	)

	fmt.Fprintf(stdout, "Watching %d director(ies) for changes. Press Ctrl+C to stop.\n", len(dirs))
	return w.Watch(ctx)
}
