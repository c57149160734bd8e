// Package internal provides the core of the filacheck linter.
//
// Engine parses PHP sources with tree-sitter and runs every registered Rule
// on every node of the tree. Violations carry the name of the rule that
// produced them and, for fixable rules, a byte range edit that the fixer
// package applies.
//
// Key components:
//
// Engine: runs the rules on a file or an in-memory source, applies the
// configured severities and drops violations suppressed by
// filacheck-ignore comments.
//
// Rule: the interface implemented by every check in the rules package.
// DefaultRules returns them in registration order.
//
// Cache: remembers the violations of unchanged files between runs.
//
// Watcher: re-checks files as they change on disk.
//
// Usage:
//
//	engine, err := internal.NewEngine("path/to/project", nil)
//	if err != nil {
//	    // handle error
//	}
//
//	// Optionally skip a rule
//	engine.IgnoreRule("deprecated-reactive")
//
//	violations, err := engine.Run(ctx, "app/Filament/Resources/PostResource.php")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, v := range violations {
//	    fmt.Printf("%s:%d %s (%s)\n", v.File, v.Line, v.Message, v.Rule)
//	}
//
// This package is intended for internal use within the linting tool and should not be
// imported by external packages.
package internal
