package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/filacheck/filacheck/internal/nolint"
	"github.com/filacheck/filacheck/internal/syntax"
	tt "github.com/filacheck/filacheck/internal/types"
	"go.uber.org/zap"
)

// Engine manages the linting process.
type Engine struct {
	basePath     string
	rules        []Rule
	severities   map[string]tt.Severity
	ignoredRules map[string]bool
	cache        *Cache
	logger       *zap.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCache makes Run reuse the violations of unchanged files.
func WithCache(cache *Cache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithRules replaces the registered rules with the given ones.
func WithRules(rules ...Rule) EngineOption {
	return func(e *Engine) {
		e.rules = rules
	}
}

// NewEngine creates a new lint engine. Violation files are made relative
// to basePath when they lie under it. Configured rules with severity OFF
// are not run; any other configured severity replaces the severity of
// the violations of that rule.
func NewEngine(basePath string, rules map[string]tt.ConfigRule, opts ...EngineOption) (*Engine, error) {
	engine := &Engine{
		basePath:     basePath,
		severities:   make(map[string]tt.Severity),
		ignoredRules: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.logger == nil {
		engine.logger = zap.NewNop()
	}
	if engine.rules == nil {
		engine.rules = DefaultRules()
	}
	if err := engine.checkRules(); err != nil {
		return nil, err
	}
	engine.applyRules(rules)

	return engine, nil
}

func (e *Engine) checkRules() error {
	seen := make(map[string]bool, len(e.rules))
	for _, r := range e.rules {
		if seen[r.Name()] {
			return fmt.Errorf("rule %q registered twice", r.Name())
		}
		seen[r.Name()] = true
	}
	return nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	for key, rule := range rules {
		if e.findRule(key) == nil {
			// Unknown rule, continue to the next one
			e.logger.Debug("ignoring unknown rule in configuration", zap.String("rule", key))
			continue
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
			continue
		}
		e.severities[key] = rule.Severity
	}
}

func (e *Engine) findRule(name string) Rule {
	for _, r := range e.rules {
		if r.Name() == name {
			return r
		}
	}
	return nil
}

// IgnoreRule stops the engine from running the named rule. It must not
// be called while files are being checked.
func (e *Engine) IgnoreRule(rule string) {
	e.ignoredRules[rule] = true
}

// Rules returns the rules the engine runs, in registration order.
func (e *Engine) Rules() []Rule {
	active := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if !e.ignoredRules[r.Name()] {
			active = append(active, r)
		}
	}
	return active
}

// Run reads the file at path and checks it.
func (e *Engine) Run(ctx context.Context, path string) ([]tt.Violation, error) {
	if e.cache != nil {
		if violations, ok := e.cache.Get(path); ok {
			e.logger.Debug("cache hit", zap.String("file", path))
			stamped := make([]tt.Violation, len(violations))
			for i, v := range violations {
				v.Path = path
				stamped[i] = v
			}
			return stamped, nil
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	violations, err := e.RunSource(ctx, path, source)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(path, violations); err != nil {
			e.logger.Debug("failed to cache violations", zap.String("file", path), zap.Error(err))
		}
	}
	return violations, nil
}

// RunSource checks source as the content of the file at path. A source
// that does not parse yields no violations.
//
// Every rule is called on every node of the tree in document pre-order,
// rules in registration order. Each violation is stamped with the name of
// the rule that produced it.
func (e *Engine) RunSource(ctx context.Context, path string, source []byte) ([]tt.Violation, error) {
	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Debug("skipping file that does not parse", zap.String("file", path), zap.Error(err))
		return nil, nil
	}
	defer tree.Close()

	fileCtx := tt.NewContext(path, source, e.basePath)
	rules := e.Rules()

	var violations []tt.Violation
	syntax.Walk(tree.Root(), func(n syntax.Node) {
		for _, r := range rules {
			for _, v := range r.Check(n, fileCtx) {
				v.Rule = r.Name()
				v.Path = path
				if severity, ok := e.severities[v.Rule]; ok {
					v.Severity = severity
				}
				violations = append(violations, v)
			}
		}
	})

	violations = filterNolintViolations(violations, nolint.ParseComments(tree.Root()))
	return dropOrphanedSilent(violations), nil
}

// filterNolintViolations drops the violations covered by suppression
// comments.
func filterNolintViolations(violations []tt.Violation, mgr *nolint.Manager) []tt.Violation {
	if mgr == nil || mgr.Len() == 0 {
		return violations
	}
	filtered := make([]tt.Violation, 0, len(violations))
	for _, v := range violations {
		if !mgr.IsNolint(v.Line, v.Rule) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// dropOrphanedSilent drops the silent violations of rules left without a
// listed violation, such as an import only needed by a suppressed call.
func dropOrphanedSilent(violations []tt.Violation) []tt.Violation {
	listed := make(map[string]bool)
	for _, v := range violations {
		if !v.Silent {
			listed[v.Rule] = true
		}
	}
	kept := violations[:0]
	for _, v := range violations {
		if !v.Silent || listed[v.Rule] {
			kept = append(kept, v)
		}
	}
	return kept
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}

// Line returns the 1-based line n, or "" when the file has no such line.
func (s *SourceCode) Line(n int) string {
	if s == nil || n < 1 || n > len(s.Lines) {
		return ""
	}
	return strings.TrimSuffix(s.Lines[n-1], "\r")
}
