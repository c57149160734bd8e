// Package syntax exposes PHP syntax trees produced by tree-sitter.
//
// Nodes carry absolute byte offsets into the source they were parsed
// from. A tree is never edited: once the source is rewritten it must be
// parsed again.
package syntax

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// ErrSyntax is returned when the source does not form a valid program.
var ErrSyntax = errors.New("syntax error")

// Tree is a parsed PHP file.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Parse parses src as a PHP file. A tree containing error or missing
// nodes is rejected with ErrSyntax.
//
// A new tree-sitter parser is created per call, so Parse is safe for
// concurrent use.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing php: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		offset := firstErrorOffset(root)
		tree.Close()
		return nil, fmt.Errorf("%w at line %d", ErrSyntax, bytes.Count(src[:offset], []byte{'\n'})+1)
	}

	return &Tree{tree: tree, src: src}, nil
}

// Root returns the program node.
func (t *Tree) Root() Node {
	return Node{n: t.tree.RootNode(), src: t.src}
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.src
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// firstErrorOffset finds the start of the first error or missing node.
func firstErrorOffset(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartByte())
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}
		return firstErrorOffset(child)
	}
	return int(n.StartByte())
}

// Walk calls visit for n and every named descendant of n in document
// pre-order.
func Walk(n Node, visit func(Node)) {
	if n.IsZero() {
		return
	}
	visit(n)
	count := int(n.n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.n.NamedChild(i)
		if child == nil {
			continue
		}
		Walk(Node{n: child, src: n.src}, visit)
	}
}
