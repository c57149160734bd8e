package nolint

import (
	"bytes"
	"errors"
	"math"
	"strings"

	"github.com/filacheck/filacheck/internal/syntax"
)

const directive = "filacheck-ignore"

var (
	errNotDirective  = errors.New("not a suppression comment")
	errInvalidFormat = errors.New("invalid suppression comment format")
	errNoRules       = errors.New("no rules specified after colon")
)

// Manager manages suppression scopes of one file and checks if a line is
// suppressed.
type Manager struct {
	scopes []scope
}

// scope represents a range of lines where suppression applies.
type scope struct {
	rules map[string]struct{} // empty => apply to all rules
	start int
	end   int
}

// ParseComments collects the suppression comments below root, usually
// the program node of a file.
func ParseComments(root syntax.Node) *Manager {
	manager := &Manager{}
	syntax.Walk(root, func(n syntax.Node) {
		if !n.Is(syntax.KindComment) {
			return
		}
		s, err := parseComment(n)
		if err != nil {
			// ignore ordinary and malformed comments
			return
		}
		manager.scopes = append(manager.scopes, s)
	})
	return manager
}

// parseComment parses a single suppression comment and determines its
// scope.
func parseComment(comment syntax.Node) (scope, error) {
	var s scope

	text, ok := directiveText(comment.Text())
	if !ok {
		return s, errNotDirective
	}
	rest := text[len(directive):]

	// The directive either stands alone, applying to all rules, or is
	// followed by a colon and a list of rules.
	if len(rest) > 0 && rest[0] != ':' && rest[0] != ' ' && rest[0] != '\t' {
		return s, errInvalidFormat
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, ":") {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest == "" {
			return s, errNoRules
		}
	} else if rest != "" {
		return s, errInvalidFormat
	}
	s.rules = parseIgnoreRuleNames(rest)

	line := comment.Line()

	// Before any code, the comment applies to the entire file.
	if isFileHeader(comment) {
		s.start = 1
		s.end = math.MaxInt
		return s, nil
	}

	// A comment trailing code applies to its own line.
	if isInlineComment(comment) {
		s.start = line
		s.end = line
		return s, nil
	}

	// A standalone comment applies to the statement starting on the next
	// line, including the comment line itself.
	s.start = line
	s.end = comment.EndLine() + 1
	if next := nextCode(comment); !next.IsZero() && next.Line() == comment.EndLine()+1 {
		s.end = next.EndLine()
	}
	return s, nil
}

// directiveText strips the comment markers and returns the text when it
// starts with the directive.
func directiveText(text string) (string, bool) {
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "#"):
		text = text[1:]
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(text[2:], "*/")
	default:
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, strings.HasPrefix(text, directive)
}

// parseIgnoreRuleNames parses the rule list of a suppression comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// isFileHeader reports whether only the opening tag and other comments
// precede the comment.
func isFileHeader(comment syntax.Node) bool {
	if !comment.Parent().Is(syntax.KindProgram) {
		return false
	}
	for prev := comment.Prev(); !prev.IsZero(); prev = prev.Prev() {
		if !prev.Is(syntax.KindPHPTag, syntax.KindComment, syntax.KindText) {
			return false
		}
	}
	return true
}

// isInlineComment reports whether code precedes the comment on its line.
func isInlineComment(comment syntax.Node) bool {
	src := comment.Source()
	start := comment.Start()
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	return len(bytes.TrimSpace(src[lineStart:start])) > 0
}

// nextCode returns the first sibling after the comment that is not a
// comment.
func nextCode(comment syntax.Node) syntax.Node {
	next := comment.Next()
	for next.Is(syntax.KindComment) {
		next = next.Next()
	}
	return next
}

// IsNolint reports whether violations of rule on line are suppressed.
func (m *Manager) IsNolint(line int, rule string) bool {
	for _, s := range m.scopes {
		if line < s.start || line > s.end {
			continue
		}
		// If the rules list is empty, suppression applies to all rules
		if len(s.rules) == 0 {
			return true
		}
		if _, exists := s.rules[rule]; exists {
			return true
		}
	}
	return false
}

// Len returns the number of suppression comments found.
func (m *Manager) Len() int {
	return len(m.scopes)
}
